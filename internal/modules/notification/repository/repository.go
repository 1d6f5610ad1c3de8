package repository

import (
	"context"

	"coursematch.com/backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository keeps the unread counter stored on each profile.
type NotificationRepository interface {
	Increment(ctx context.Context, profileID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, profileID uuid.UUID) error
	CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Increment(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("user_id = ?", profileID).
		UpdateColumn("messages", gorm.Expr("messages + ?", 1)).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("user_id = ?", profileID).
		UpdateColumn("messages", 0).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).
		Select("messages").
		First(&profile, "user_id = ?", profileID).Error
	if err != nil {
		return 0, err
	}
	return int64(profile.Messages), nil
}
