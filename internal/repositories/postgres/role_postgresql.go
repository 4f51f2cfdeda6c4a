package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kwanddwo/conflow-service/internal/cache"
	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

type RolePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRolePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RoleRepository {
	return &RolePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *RolePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Grant inserts the role entry unless the identical (user, conference, role)
// grant already exists. The unique index makes concurrent duplicate grants
// collapse into one row; RowsAffected tells the callers which one won.
func (r *RolePostgreSQL) Grant(ctx context.Context, tx *gorm.DB, entry *models.ConferenceRoleEntry) (bool, error) {
	result := r.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "conference_id"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(entry)
	if result.Error != nil {
		return false, fmt.Errorf("failed to grant role: %w", result.Error)
	}

	r.invalidateRoles(ctx, entry.UserID, entry.ConferenceID)

	return result.RowsAffected > 0, nil
}

// Revoke removes a role entry by its ID
func (r *RolePostgreSQL) Revoke(ctx context.Context, tx *gorm.DB, entryID string) error {
	var entry models.ConferenceRoleEntry
	db := r.getDB(tx).WithContext(ctx)
	if err := db.First(&entry, "id = ?", entryID).Error; err != nil {
		return err
	}
	if err := db.Delete(&entry).Error; err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	r.invalidateRoles(ctx, entry.UserID, entry.ConferenceID)

	return nil
}

func (r *RolePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, entryID string) (*models.ConferenceRoleEntry, error) {
	var entry models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		First(&entry, "id = ?", entryID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *RolePostgreSQL) GetByUserAndConference(ctx context.Context, tx *gorm.DB, userID, conferenceID string) ([]*models.ConferenceRoleEntry, error) {
	var entries []*models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND conference_id = ?", userID, conferenceID).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return entries, nil
}

func (r *RolePostgreSQL) GetEntry(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (*models.ConferenceRoleEntry, error) {
	var entry models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ? AND conference_id = ? AND role = ?", userID, conferenceID, role).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// HasRole reports whether the user holds the given role, with caching. Role
// checks sit on every guarded request path.
func (r *RolePostgreSQL) HasRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string, role models.ConferenceRole) (bool, error) {
	cacheKey := fmt.Sprintf("has:%s:%s:%s", userID, conferenceID, role)
	var has bool

	err := r.cacheManager.Role.CacheOrExecute(ctx, cacheKey, &has, cache.RoleCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := r.getDB(tx).WithContext(ctx).
			Model(&models.ConferenceRoleEntry{}).
			Where("user_id = ? AND conference_id = ? AND role = ?", userID, conferenceID, role).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check role: %w", err)
		}
		result := count > 0
		return &result, nil
	})

	return has, err
}

func (r *RolePostgreSQL) HasAnyRole(ctx context.Context, tx *gorm.DB, userID, conferenceID string) (bool, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.ConferenceRoleEntry{}).
		Where("user_id = ? AND conference_id = ?", userID, conferenceID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check roles: %w", err)
	}
	return count > 0, nil
}

func (r *RolePostgreSQL) ListByConference(ctx context.Context, tx *gorm.DB, conferenceID string) ([]*models.ConferenceRoleEntry, error) {
	var entries []*models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		Where("conference_id = ?", conferenceID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conference roles: %w", err)
	}
	return entries, nil
}

func (r *RolePostgreSQL) ListByConferenceAndRoles(ctx context.Context, tx *gorm.DB, conferenceID string, roles ...models.ConferenceRole) ([]*models.ConferenceRoleEntry, error) {
	if len(roles) == 0 {
		return nil, errors.New("at least one role is required")
	}
	var entries []*models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		Where("conference_id = ? AND role IN ?", conferenceID, roles).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conference roles: %w", err)
	}
	return entries, nil
}

func (r *RolePostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ConferenceRoleEntry, error) {
	var entries []*models.ConferenceRoleEntry
	err := r.getDB(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return entries, nil
}

func (r *RolePostgreSQL) invalidateRoles(ctx context.Context, userID, conferenceID string) {
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Role, fmt.Sprintf("has:%s:%s:*", userID, conferenceID))
}
