package social

import (
	"context"
	"errors"
	"strings"

	"coursematch.com/backend/internal/entity"
	course "coursematch.com/backend/internal/modules/course/service"
	notificationService "coursematch.com/backend/internal/modules/notification/service"
	"coursematch.com/backend/internal/modules/social/dto"
	socialRepo "coursematch.com/backend/internal/modules/social/repository"
	userRepo "coursematch.com/backend/internal/modules/user/repository"
	"coursematch.com/backend/pkg/apperror"
	commonDto "coursematch.com/backend/pkg/dto"
	"coursematch.com/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgFollowFailed   = "Failed to Follow Student"
	msgUnfollowFailed = "Failed to unfollow Student"
)

type SocialService interface {
	FollowProfile(ctx context.Context, followerID uuid.UUID, username string) error
	UnfollowProfile(ctx context.Context, followerID uuid.UUID, username string) error
	UnfollowAll(ctx context.Context, followerID uuid.UUID) error
	SearchFollowing(ctx context.Context, followerID uuid.UUID, query string) ([]dto.StudentResponse, error)
	SearchProfiles(ctx context.Context, query string) ([]dto.StudentResponse, error)
}

type socialService struct {
	users         userRepo.UserRepository
	follows       socialRepo.FollowRepository
	courses       course.CourseService
	notifications notificationService.NotificationService
	log           *logger.Logger
}

func NewSocialService(
	users userRepo.UserRepository,
	follows socialRepo.FollowRepository,
	courses course.CourseService,
	notifications notificationService.NotificationService,
	log *logger.Logger,
) SocialService {
	return &socialService{
		users:         users,
		follows:       follows,
		courses:       courses,
		notifications: notifications,
		log:           log,
	}
}

// lookup resolves username to a user, mapping absence to failMsg.
func (s *socialService) lookup(ctx context.Context, username, failMsg string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.Invalid(failMsg)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(failMsg)
		}
		return nil, err
	}
	return user, nil
}

func (s *socialService) FollowProfile(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := s.lookup(ctx, username, msgFollowFailed)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return apperror.Invalid(msgFollowFailed)
	}

	created, err := s.follows.Follow(ctx, followerID, target.ID)
	if err != nil {
		return err
	}
	if !created || s.notifications == nil {
		return nil
	}

	actor, err := s.users.FindByID(ctx, followerID)
	if err != nil {
		s.log.Warn("follow notification skipped", "follower", followerID, "error", err)
		return nil
	}
	if err := s.notifications.NotifyFollow(ctx, target.ID, actor); err != nil {
		s.log.Warn("failed to notify follow", "followee", target.ID, "error", err)
	}
	return nil
}

func (s *socialService) UnfollowProfile(ctx context.Context, followerID uuid.UUID, username string) error {
	target, err := s.lookup(ctx, username, msgUnfollowFailed)
	if err != nil {
		return err
	}
	return s.follows.Unfollow(ctx, followerID, target.ID)
}

func (s *socialService) UnfollowAll(ctx context.Context, followerID uuid.UUID) error {
	return s.follows.UnfollowAll(ctx, followerID)
}

func (s *socialService) SearchFollowing(ctx context.Context, followerID uuid.UUID, query string) ([]dto.StudentResponse, error) {
	profiles, err := s.follows.SearchFollowing(ctx, followerID, query)
	if err != nil {
		return nil, err
	}
	return s.toStudents(ctx, profiles)
}

func (s *socialService) SearchProfiles(ctx context.Context, query string) ([]dto.StudentResponse, error) {
	profiles, err := s.users.SearchProfiles(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.toStudents(ctx, profiles)
}

func (s *socialService) toStudents(ctx context.Context, profiles []*entity.Profile) ([]dto.StudentResponse, error) {
	students := make([]dto.StudentResponse, 0, len(profiles))
	for _, p := range profiles {
		courses, err := s.courses.ResolveCoursesForProfile(ctx, p.UserID, "")
		if err != nil {
			return nil, err
		}

		student := dto.StudentResponse{
			ImgURL:  p.AvatarURL,
			Info:    commonDto.NewProfileInfo(p),
			Courses: courses,
		}
		if p.User != nil {
			student.Username = p.User.Username
			student.FullName = p.User.FullName()
		}
		students = append(students, student)
	}
	return students, nil
}
