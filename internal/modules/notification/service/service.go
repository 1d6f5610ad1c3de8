package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/internal/modules/notification/dto"
	notifRepo "coursematch.com/backend/internal/modules/notification/repository"
	"coursematch.com/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	// NotifyFollow bumps the followee's unread counter and pushes a live event.
	NotifyFollow(ctx context.Context, followeeID uuid.UUID, actor *entity.User) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
	log         *logger.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client, log *logger.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		log:         log,
	}
}

// Channel is the redis pub/sub channel carrying a student's events.
func Channel(userID string) string {
	return fmt.Sprintf("student_notifications:%s", userID)
}

func (s *notificationService) NotifyFollow(ctx context.Context, followeeID uuid.UUID, actor *entity.User) error {
	if err := s.repo.Increment(ctx, followeeID); err != nil {
		return err
	}

	if s.redisClient == nil {
		return nil
	}

	event := dto.Event{
		Type:      dto.TypeFollow,
		Actor:     actor.Username,
		ActorName: actor.FullName(),
		CreatedAt: time.Now().UTC(),
	}
	if actor.Profile != nil {
		event.ImgURL = actor.Profile.AvatarURL
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := s.redisClient.Publish(ctx, Channel(followeeID.String()), payload).Err(); err != nil {
		s.log.Warn("failed to publish notification", "followee", followeeID, "error", err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
