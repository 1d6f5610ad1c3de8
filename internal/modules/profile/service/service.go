package profile

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"coursematch.com/backend/internal/entity"
	profileDto "coursematch.com/backend/internal/modules/profile/dto"
	search "coursematch.com/backend/internal/modules/search/service"
	userRepo "coursematch.com/backend/internal/modules/user/repository"
	"coursematch.com/backend/pkg/apperror"
	commonDto "coursematch.com/backend/pkg/dto"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/ratelimit"
	"coursematch.com/backend/pkg/storage"
	"coursematch.com/backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	MaxAvatarSize = 5 << 20
	avatarAction  = "avatar"

	msgPictureUpdated = "Profile Picture Updated"
	msgPictureFailed  = "Failed To Update Picture"
)

var allowedAvatarExt = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
}

// profileFields are checked in declaration order; the first violation is reported.
type profileFields struct {
	Major      string  `validate:"max=60"`
	Minor      string  `validate:"max=60"`
	Year       int     `validate:"min=1,max=4"`
	GPA        float64 `validate:"min=0,max=4"`
	FavClasses string  `validate:"max=150"`
	Mood       string  `validate:"max=60"`
}

var profileMessages = validator.Messages{
	"Major":      "Major must be less than 60 characters",
	"Minor":      "Minor(s) must be less than 60 characters",
	"Year":       "Year must between 1 and 4",
	"GPA":        "GPA must be between 0.0 and 4.0",
	"FavClasses": "Favorite classes must be less than 150 characters",
	"Mood":       "Mood must be less than 60 characters",
}

type ProfileService interface {
	GetProfileInfo(ctx context.Context, userID uuid.UUID) (*commonDto.ProfileInfo, error)
	SaveProfileInfo(ctx context.Context, userID uuid.UUID, input profileDto.SaveProfileInput) error
	UpdatePicture(ctx context.Context, userID uuid.UUID, url string) error
	UploadAvatar(ctx context.Context, userID uuid.UUID, avatar *commonDto.AvatarFile) (string, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	imageStorage storage.ImageStorage
	limiter      *ratelimit.Limiter
	avatarWindow time.Duration
	meili        search.MeiliSearchService
	sanitizer    *bluemonday.Policy
	log          *logger.Logger
}

// NewProfileService accepts a nil imageStorage; uploads then fail cleanly.
func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, limiter *ratelimit.Limiter, avatarWindow time.Duration, meili search.MeiliSearchService, log *logger.Logger) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		limiter:      limiter,
		avatarWindow: avatarWindow,
		meili:        meili,
		sanitizer:    bluemonday.StrictPolicy(),
		log:          log,
	}
}

func (s *profileService) GetProfileInfo(ctx context.Context, userID uuid.UUID) (*commonDto.ProfileInfo, error) {
	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("NotAuthenticated")
		}
		return nil, err
	}

	info := commonDto.NewProfileInfo(profile)
	return &info, nil
}

func (s *profileService) SaveProfileInfo(ctx context.Context, userID uuid.UUID, input profileDto.SaveProfileInput) error {
	fields := profileFields{
		Major:      input.Major,
		Minor:      input.Minor,
		Year:       1,
		GPA:        1.0,
		FavClasses: input.FavClasses,
		Mood:       input.Mood,
	}
	if input.Year != nil {
		fields.Year = *input.Year
	}
	if input.GPA != nil {
		fields.GPA = *input.GPA
	}

	if err := validator.Check(fields, profileMessages); err != nil {
		return err
	}

	profile := &entity.Profile{
		UserID:     userID,
		Major:      fields.Major,
		Minor:      fields.Minor,
		Year:       fields.Year,
		GPA:        fields.GPA,
		FavClasses: fields.FavClasses,
		Mood:       fields.Mood,
		Bio:        s.cleanBio(input.Bio),
	}
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return err
	}

	s.reindex(ctx, userID)
	return nil
}

func (s *profileService) UpdatePicture(ctx context.Context, userID uuid.UUID, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return apperror.Invalid(msgPictureFailed)
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(msgPictureFailed)
		}
		return err
	}

	s.reindex(ctx, userID)
	return nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, avatar *commonDto.AvatarFile) (string, error) {
	if avatar == nil || avatar.Reader == nil {
		return "", apperror.Invalid(msgPictureFailed)
	}
	if avatar.Size > MaxAvatarSize {
		return "", apperror.Invalid("Picture must be smaller than 5MB")
	}
	if _, ok := allowedAvatarExt[strings.ToLower(filepath.Ext(avatar.FileName))]; !ok {
		return "", apperror.Invalid("Picture must be a png, jpg, gif or webp image")
	}
	if s.imageStorage == nil {
		return "", apperror.New(http.StatusServiceUnavailable, msgPictureFailed, apperror.ErrInternal)
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound(msgPictureFailed)
		}
		return "", err
	}

	allowed, err := s.limiter.Allow(ctx, userID, avatarAction, s.avatarWindow)
	if err != nil {
		return "", err
	}
	if !allowed {
		wait, _ := s.limiter.Remaining(ctx, userID, avatarAction)
		return "", apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("Please wait %ds before changing your picture again", int(wait.Seconds())),
			apperror.ErrRateLimitExceeded)
	}

	url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, avatar.FileName)
	if err != nil {
		_ = s.limiter.Clear(ctx, userID, avatarAction)
		return "", err
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		_ = s.limiter.Clear(ctx, userID, avatarAction)
		return "", err
	}

	if old := profile.AvatarURL; old != "" && old != url {
		if err := s.imageStorage.DeleteImage(ctx, old); err != nil && !errors.Is(err, storage.ErrNotHosted) {
			s.log.Warn("failed to delete previous avatar", "user_id", userID, "url", old, "error", err)
		}
	}

	s.reindex(ctx, userID)
	return url, nil
}

// cleanBio keeps plain text only.
func (s *profileService) cleanBio(bio string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(bio)))
}

func (s *profileService) reindex(ctx context.Context, userID uuid.UUID) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load profile for indexing", "user_id", userID, "error", err)
		return
	}
	if err := s.meili.IndexProfile(user); err != nil {
		s.log.Warn("failed to index profile", "user_id", userID, "error", err)
	}
}
