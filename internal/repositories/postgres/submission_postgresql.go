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

type SubmissionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSubmissionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create creates a submission together with its author rows
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if err := s.getDB(tx).WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	s.invalidateSubmission(ctx, submission)

	return nil
}

// GetByID retrieves a submission by ID with caching
func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var submission models.Submission

	err := s.cacheManager.Submission.CacheOrExecute(ctx, cacheKey, &submission, cache.SubmissionCacheConfig.TTL, func() (interface{}, error) {
		var dbSubmission models.Submission
		err := s.getDB(tx).WithContext(ctx).
			First(&dbSubmission, "id = ?", id).Error
		if err != nil {
			return nil, err
		}
		return &dbSubmission, nil
	})

	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// GetByIDWithDetails retrieves a submission with authors and conference
func (s *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	var submission models.Submission
	err := s.getDB(tx).WithContext(ctx).
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("submission_authors.created_at ASC")
		}).
		Preload("SubmittedBy").
		Preload("Conference").
		First(&submission, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Update updates a submission and invalidates cache
func (s *SubmissionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if err := s.getDB(tx).WithContext(ctx).Omit("Authors").Save(submission).Error; err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}
	s.invalidateSubmission(ctx, submission)

	return nil
}

// UpdateStatus updates only the lifecycle status
func (s *SubmissionPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id string, status models.SubmissionStatus) error {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update submission status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.SafeDelete(ctx, s.cacheManager.Submission, fmt.Sprintf("id:%s", id))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Submission, "list:*")

	return nil
}

// GetByConference retrieves submissions for a conference with filters
func (s *SubmissionPostgreSQL) GetByConference(ctx context.Context, tx *gorm.DB, conferenceID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.ConferenceID = &conferenceID
	return s.list(ctx, tx, filters)
}

// GetBySubmitter retrieves submissions created by a specific user
func (s *SubmissionPostgreSQL) GetBySubmitter(ctx context.Context, tx *gorm.DB, userID string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.SubmittedBy = &userID
	return s.list(ctx, tx, filters)
}

func (s *SubmissionPostgreSQL) list(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := s.getDB(tx).WithContext(ctx).Model(&models.Submission{})
	query = s.helpers.ApplySubmissionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Preload("Authors").Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// ReplaceAuthors deletes the prior author list and inserts the new one. The
// two steps run in one transaction so a failed insert cannot leave the
// submission with no authors at all.
func (s *SubmissionPostgreSQL) ReplaceAuthors(ctx context.Context, tx *gorm.DB, submissionID string, authors []models.SubmissionAuthor) error {
	for i := range authors {
		authors[i].SubmissionID = submissionID
	}

	err := s.getDB(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Where("submission_id = ?", submissionID).Delete(&models.SubmissionAuthor{}).Error; err != nil {
			return fmt.Errorf("failed to clear authors: %w", err)
		}
		if len(authors) > 0 {
			if err := txn.Create(&authors).Error; err != nil {
				return fmt.Errorf("failed to insert authors: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.SafeDelete(ctx, s.cacheManager.Submission, fmt.Sprintf("id:%s", submissionID))

	return nil
}

// GetAuthors retrieves the ordered author list of a submission
func (s *SubmissionPostgreSQL) GetAuthors(ctx context.Context, tx *gorm.DB, submissionID string) ([]*models.SubmissionAuthor, error) {
	var authors []*models.SubmissionAuthor
	err := s.getDB(tx).WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

// CorrespondingUserIDs returns user IDs of registered corresponding authors
func (s *SubmissionPostgreSQL) CorrespondingUserIDs(ctx context.Context, tx *gorm.DB, submissionID string) ([]string, error) {
	var ids []string
	err := s.getDB(tx).WithContext(ctx).
		Model(&models.SubmissionAuthor{}).
		Where("submission_id = ? AND is_corresponding = ? AND user_id IS NOT NULL", submissionID, true).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corresponding authors: %w", err)
	}
	return ids, nil
}

func (s *SubmissionPostgreSQL) invalidateSubmission(ctx context.Context, submission *models.Submission) {
	cache.SafeDelete(ctx, s.cacheManager.Submission, fmt.Sprintf("id:%s", submission.ID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Submission, "list:*")
	cache.InvalidateConferenceCache(ctx, s.cacheManager, submission.ConferenceID)
}
