package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultAvatar = "profile1.svg"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile      *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name, trimming the gap when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile is the student's editable attribute set, keyed by its identity.
type Profile struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Major      string    `gorm:"size:60" json:"major"`
	Minor      string    `gorm:"size:60" json:"minor"`
	Year       int       `gorm:"not null;default:1" json:"year"`
	GPA        float64   `gorm:"not null;default:1" json:"gpa"`
	FavClasses string    `gorm:"size:150" json:"fav_classes"`
	Mood       string    `gorm:"size:60" json:"mood"`
	Bio        string    `gorm:"type:text" json:"bio"`
	AvatarURL  string    `gorm:"size:255;not null;default:'profile1.svg'" json:"avatar_url"`
	Messages   int       `gorm:"not null;default:0" json:"messages"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewProfile returns the defaults every fresh registration starts with.
func NewProfile() *Profile {
	return &Profile{
		Year:      1,
		GPA:       1.0,
		AvatarURL: DefaultAvatar,
	}
}

// Completion is 20% plus 16% for each filled descriptive field.
func (p *Profile) Completion() int {
	completion := 20
	for _, field := range []string{p.Major, p.Minor, p.FavClasses, p.Mood, p.Bio} {
		if field != "" {
			completion += 16
		}
	}
	return completion
}
