package dto

import (
	"io"

	"coursematch.com/backend/internal/entity"
)

// AvatarFile is an uploaded profile picture.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
	Size     int64
}

// ProfileInfo is the editable part of a profile as the client sees it.
type ProfileInfo struct {
	Major      string  `json:"major"`
	Minor      string  `json:"minor"`
	Year       int     `json:"year"`
	GPA        float64 `json:"gpa"`
	FavClasses string  `json:"favClasses"`
	Mood       string  `json:"mood"`
	Bio        string  `json:"bio"`
}

func NewProfileInfo(p *entity.Profile) ProfileInfo {
	return ProfileInfo{
		Major:      p.Major,
		Minor:      p.Minor,
		Year:       p.Year,
		GPA:        p.GPA,
		FavClasses: p.FavClasses,
		Mood:       p.Mood,
		Bio:        p.Bio,
	}
}
