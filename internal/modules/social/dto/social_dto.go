package dto

import (
	courseDto "coursematch.com/backend/internal/modules/course/dto"
	commonDto "coursematch.com/backend/pkg/dto"
)

type UsernameInput struct {
	Username string `json:"username" form:"username"`
}

type QueryInput struct {
	Query string `json:"query" form:"query"`
}

// StudentResponse is a profile card as shown in search and following lists.
type StudentResponse struct {
	Username string                             `json:"uname"`
	FullName string                             `json:"fullname"`
	ImgURL   string                             `json:"imgUrl"`
	Info     commonDto.ProfileInfo              `json:"info"`
	Courses  []courseDto.EnrolledCourseResponse `json:"courses"`
}

type StudentListResponse struct {
	Data []StudentResponse `json:"data"`
}
