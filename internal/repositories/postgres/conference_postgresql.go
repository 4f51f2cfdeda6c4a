package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/cache"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

type ConferencePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewConferencePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ConferenceRepository {
	return &ConferencePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (c *ConferencePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

// Create creates a new conference and invalidates listing caches
func (c *ConferencePostgreSQL) Create(ctx context.Context, tx *gorm.DB, conference *models.Conference) error {
	if err := c.getDB(tx).WithContext(ctx).Create(conference).Error; err != nil {
		return fmt.Errorf("failed to create conference: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Conference, fmt.Sprintf("creator:%s:*", conference.CreatedByID))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Conference, "list:*")

	return nil
}

// GetByID retrieves a conference by ID with caching
func (c *ConferencePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error) {
	// Reads inside a transaction must see the transaction's own writes; the
	// cache holds pre-transaction state.
	if tx != nil {
		var conference models.Conference
		if err := tx.WithContext(ctx).First(&conference, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &conference, nil
	}

	cacheKey := fmt.Sprintf("id:%s", id)
	var conference models.Conference

	err := c.cacheManager.Conference.CacheOrExecute(ctx, cacheKey, &conference, cache.ConferenceCacheConfig.TTL, func() (interface{}, error) {
		var dbConference models.Conference
		err := c.getDB(tx).WithContext(ctx).
			First(&dbConference, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &dbConference, nil
	})

	if err != nil {
		return nil, err
	}

	return &conference, nil
}

// GetByIDWithDetails retrieves a conference with its creator, roles and
// computed counters. Never cached; the detail view backs edit forms.
func (c *ConferencePostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Conference, error) {
	var conference models.Conference
	err := c.getDB(tx).WithContext(ctx).
		Preload("CreatedBy").
		Preload("Roles").
		Preload("Roles.User").
		First(&conference, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	if err := c.calculateComputedFields(ctx, &conference); err != nil {
		return nil, err
	}

	return &conference, nil
}

// Update updates a conference and invalidates cache
func (c *ConferencePostgreSQL) Update(ctx context.Context, tx *gorm.DB, conference *models.Conference) error {
	if err := c.getDB(tx).WithContext(ctx).Save(conference).Error; err != nil {
		return fmt.Errorf("failed to update conference: %w", err)
	}
	c.invalidateConference(ctx, conference.ID, conference.CreatedByID)

	return nil
}

// UpdateStatus updates only the moderation status
func (c *ConferencePostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.ConferenceStatus) error {
	result := c.getDB(tx).WithContext(ctx).
		Model(&models.Conference{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update conference status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	c.invalidateConference(ctx, id, "")

	return nil
}

// List retrieves conferences with filters and pagination
func (c *ConferencePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	var conferences []*models.Conference
	var total int64

	query := c.getDB(tx).WithContext(ctx).Model(&models.Conference{})
	query = c.helpers.ApplyConferenceFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conferences: %w", err)
	}

	query = c.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Preload("CreatedBy").Find(&conferences).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list conferences: %w", err)
	}

	return conferences, total, nil
}

// GetByCreator retrieves conferences created by a specific user
func (c *ConferencePostgreSQL) GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	filters.CreatedBy = &creatorID
	return c.List(ctx, tx, filters)
}

// GetByParticipant retrieves conferences where the user holds any role
func (c *ConferencePostgreSQL) GetByParticipant(ctx context.Context, tx *gorm.DB, userID string, filters repositories.ConferenceFilters) ([]*models.Conference, int64, error) {
	var conferences []*models.Conference
	var total int64

	query := c.getDB(tx).WithContext(ctx).
		Model(&models.Conference{}).
		Joins("JOIN "+roleTable+" ON "+roleTable+".conference_id = conferences.id").
		Where(roleTable+".user_id = ?", userID).
		Distinct()
	query = c.helpers.ApplyConferenceFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count participant conferences: %w", err)
	}

	query = c.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&conferences).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list participant conferences: %w", err)
	}

	return conferences, total, nil
}

// GetStats aggregates the per-conference dashboard numbers
func (c *ConferencePostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, id string) (*repositories.ConferenceStats, error) {
	db := c.getDB(tx).WithContext(ctx)
	stats := &repositories.ConferenceStats{
		StatusBreakdown: make(map[models.SubmissionStatus]int),
	}

	type statusRow struct {
		Status models.SubmissionStatus
		Count  int
	}
	var rows []statusRow
	err := db.Model(&models.Submission{}).
		Select("status, COUNT(*) as count").
		Where("conference_id = ?", id).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate submission statuses: %w", err)
	}
	for _, row := range rows {
		stats.StatusBreakdown[row.Status] = row.Count
		stats.SubmissionCount += row.Count
	}

	var reviewed int64
	err = db.Model(&models.Review{}).
		Joins("JOIN review_assignments ON review_assignments.id = reviews.assignment_id").
		Joins("JOIN submissions ON submissions.id = review_assignments.submission_id").
		Where("submissions.conference_id = ?", id).
		Count(&reviewed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}
	stats.ReviewedCount = int(reviewed)

	var decided int64
	err = db.Model(&models.Decision{}).
		Joins("JOIN decision_assignments ON decision_assignments.id = decisions.assignment_id").
		Joins("JOIN submissions ON submissions.id = decision_assignments.submission_id").
		Where("submissions.conference_id = ?", id).
		Count(&decided).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}
	stats.DecidedCount = int(decided)

	participants, err := c.helpers.CountParticipants(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	stats.ParticipantCount = int(participants)

	return stats, nil
}

func (c *ConferencePostgreSQL) calculateComputedFields(ctx context.Context, conference *models.Conference) error {
	submissions, err := c.helpers.CountSubmissions(ctx, conference.ID)
	if err != nil {
		return fmt.Errorf("failed to count submissions: %w", err)
	}
	conference.SubmissionCount = int(submissions)

	participants, err := c.helpers.CountParticipants(ctx, conference.ID)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	conference.ParticipantCount = int(participants)

	return nil
}

func (c *ConferencePostgreSQL) invalidateConference(ctx context.Context, id, creatorID string) {
	cache.SafeDelete(ctx, c.cacheManager.Conference, fmt.Sprintf("id:%s", id))
	cache.SafeInvalidatePattern(ctx, c.cacheManager.Conference, "list:*")
	if creatorID != "" {
		cache.SafeInvalidatePattern(ctx, c.cacheManager.Conference, fmt.Sprintf("creator:%s:*", creatorID))
	}
}
