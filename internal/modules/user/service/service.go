package service

import (
	"context"
	"errors"
	"fmt"

	"coursematch.com/backend/internal/entity"
	search "coursematch.com/backend/internal/modules/search/service"
	socialRepo "coursematch.com/backend/internal/modules/social/repository"
	"coursematch.com/backend/internal/modules/user/dto"
	"coursematch.com/backend/internal/modules/user/repository"
	"coursematch.com/backend/pkg/apperror"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/session"
	"coursematch.com/backend/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// daysUntilEnd is a fixed placeholder until terms carry real dates.
const daysUntilEnd = 4

var (
	ErrLoginFailed   = apperror.Unauthorized("LoginFailed")
	ErrUsernameTaken = apperror.Conflict("Username already taken")
)

var registerMessages = validator.Messages{
	"FirstName": "First Name cannot be empty",
	"LastName":  "Last Name cannot be empty",
	"Username":  "MacID cannot be empty",
	"Password":  "Password must be at least 8 characters long",
	"Confirm":   "Passwords must match",
}

var hashCost = bcrypt.DefaultCost

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.Session, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.Session, error)
	// Logout ends a non-remembered session and reports whether it did.
	// Remembered sessions are left untouched.
	Logout(ctx context.Context, claims *session.Claims) (bool, error)
	UserInfo(ctx context.Context, userID uuid.UUID) (*dto.UserInfoResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	follows  socialRepo.FollowRepository
	sessions *session.Manager
	meili    search.MeiliSearchService
	log      *logger.Logger
}

func NewAuthService(repo repository.UserRepository, follows socialRepo.FollowRepository, sessions *session.Manager, meili search.MeiliSearchService, log *logger.Logger) AuthService {
	return &authService{
		repo:     repo,
		follows:  follows,
		sessions: sessions,
		meili:    meili,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.Session, error) {
	if err := validator.Check(input, registerMessages); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if err := s.repo.Create(ctx, user, entity.NewProfile()); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.log.Info("student registered", "user_id", user.ID, "username", user.Username)
	s.index(user)

	return s.issue(user.ID, false)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.Session, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrLoginFailed
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrLoginFailed
	}

	return s.issue(user.ID, input.RememberUser)
}

func (s *authService) Logout(ctx context.Context, claims *session.Claims) (bool, error) {
	if claims.Remember {
		return false, nil
	}
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return false, err
	}
	return true, nil
}

func (s *authService) UserInfo(ctx context.Context, userID uuid.UUID) (*dto.UserInfoResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("NotAuthenticated")
		}
		return nil, err
	}
	if user.Profile == nil {
		return nil, fmt.Errorf("user %s has no profile", userID)
	}

	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserInfoResponse{
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		FollowingCount:    following,
		FollowersCount:    followers,
		ProfileCompletion: user.Profile.Completion(),
		DaysUntilEnd:      daysUntilEnd,
		ImgURL:            user.Profile.AvatarURL,
		UnreadMessages:    user.Profile.Messages,
	}, nil
}

func (s *authService) issue(userID uuid.UUID, remember bool) (*dto.Session, error) {
	token, claims, err := s.sessions.Issue(userID, remember)
	if err != nil {
		return nil, err
	}
	return &dto.Session{Token: token, Claims: claims}, nil
}

func (s *authService) index(user *entity.User) {
	if err := s.meili.IndexProfile(user); err != nil {
		s.log.Warn("failed to index profile", "username", user.Username, "error", err)
	}
}
