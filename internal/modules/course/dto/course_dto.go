package dto

import "coursematch.com/backend/internal/entity"

type CourseCodeInput struct {
	Code string `json:"code" form:"code"`
}

type SectionResponse struct {
	Section  string `json:"section"`
	Prof     string `json:"prof"`
	Location string `json:"location"`
	Times    string `json:"times"`
}

func NewSectionResponse(s *entity.ClassSection) *SectionResponse {
	if s == nil {
		return nil
	}
	return &SectionResponse{
		Section:  s.Section,
		Prof:     s.Prof,
		Location: s.Location,
		Times:    s.Times,
	}
}

// EnrolledCourseResponse is one of a student's courses with the section
// picked for each kind, or null.
type EnrolledCourseResponse struct {
	Code       string           `json:"code"`
	Department string           `json:"department"`
	Lecture    *SectionResponse `json:"lecture"`
	Tutorial   *SectionResponse `json:"tutorial"`
	Lab        *SectionResponse `json:"lab"`
}

// CatalogCourseResponse lists every section of a course, grouped by kind.
type CatalogCourseResponse struct {
	Code       string            `json:"code"`
	Department string            `json:"department"`
	Lectures   []SectionResponse `json:"lectures"`
	Tutorials  []SectionResponse `json:"tutorials"`
	Labs       []SectionResponse `json:"labs"`
}

type UserCoursesResponse struct {
	Courses []EnrolledCourseResponse `json:"courses"`
}

type CatalogResponse struct {
	Data []CatalogCourseResponse `json:"data"`
}
