package entity

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: Follower follows Followee. The composite key
// keeps each pair unique.
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Follower Profile `gorm:"foreignKey:FollowerID;references:UserID;constraint:OnDelete:CASCADE"`
	Followee Profile `gorm:"foreignKey:FolloweeID;references:UserID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "profile_follows" }
