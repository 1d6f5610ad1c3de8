package repository

import (
	"context"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	// Follow inserts the edge if missing and reports whether it was created.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	UnfollowAll(ctx context.Context, followerID uuid.UUID) error
	CountFollowing(ctx context.Context, profileID uuid.UUID) (int64, error)
	CountFollowers(ctx context.Context, profileID uuid.UUID) (int64, error)
	SearchFollowing(ctx context.Context, followerID uuid.UUID, query string) ([]*entity.Profile, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	edge := &entity.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&entity.Follow{}).Error
}

func (r *followRepository) UnfollowAll(ctx context.Context, followerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Delete(&entity.Follow{}).Error
}

func (r *followRepository) CountFollowing(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ?", profileID).
		Count(&count).Error
	return count, err
}

func (r *followRepository) CountFollowers(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("followee_id = ?", profileID).
		Count(&count).Error
	return count, err
}

// SearchFollowing returns followed profiles whose first name, last name or
// major contains query, ordered by username.
func (r *followRepository) SearchFollowing(ctx context.Context, followerID uuid.UUID, query string) ([]*entity.Profile, error) {
	cond, args := database.ContainsAny(query, "users.first_name", "users.last_name", "profiles.major")

	var profiles []*entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN profile_follows ON profile_follows.followee_id = profiles.user_id").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profile_follows.follower_id = ?", followerID).
		Where(cond, args...).
		Preload("User").
		Order("users.username").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
