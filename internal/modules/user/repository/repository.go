package repository

import (
	"context"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, profile *entity.Profile) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error
	SearchProfiles(ctx context.Context, query string) ([]*entity.Profile, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create stores the identity and its profile in one transaction.
func (r *userRepository) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Omit("User").Create(profile).Error; err != nil {
			return err
		}

		user.Profile = profile
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces every editable field, zero values included.
func (r *userRepository) UpdateProfile(ctx context.Context, profile *entity.Profile) error {
	return r.db.WithContext(ctx).
		Model(&entity.Profile{UserID: profile.UserID}).
		Select("Major", "Minor", "Year", "GPA", "FavClasses", "Mood", "Bio").
		Updates(profile).Error
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("user_id = ?", userID).
		Update("avatar_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchProfiles matches first name, last name or major, case-insensitively.
func (r *userRepository) SearchProfiles(ctx context.Context, query string) ([]*entity.Profile, error) {
	cond, args := database.ContainsAny(query, "users.first_name", "users.last_name", "profiles.major")

	var profiles []*entity.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where(cond, args...).
		Preload("User").
		Order("users.username").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
