package dto

import "coursematch.com/backend/pkg/session"

type LoginInput struct {
	Username     string `form:"username" json:"username"`
	Password     string `form:"password" json:"password"`
	RememberUser bool   `form:"rememberUser" json:"rememberUser"`
}

// RegisterInput fields are declared in the order they are checked.
type RegisterInput struct {
	FirstName string `form:"firstname" json:"firstname" validate:"required"`
	LastName  string `form:"lastname" json:"lastname" validate:"required"`
	Username  string `form:"username" json:"username" validate:"required"`
	Password  string `form:"password" json:"password" validate:"min=8"`
	Confirm   string `form:"confirm" json:"confirm" validate:"eqfield=Password"`
}

// Session is a freshly issued session token ready to be written as a cookie.
type Session struct {
	Token  string
	Claims *session.Claims
}

type UserInfoResponse struct {
	FirstName         string `json:"firstname"`
	LastName          string `json:"lastname"`
	FollowingCount    int64  `json:"followingCount"`
	FollowersCount    int64  `json:"followersCount"`
	ProfileCompletion int    `json:"profileCompletion"`
	DaysUntilEnd      int    `json:"daysUntilEnd"`
	ImgURL            string `json:"imgUrl"`
	UnreadMessages    int    `json:"unreadMessages"`
}
