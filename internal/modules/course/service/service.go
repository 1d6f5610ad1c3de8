package course

import (
	"context"
	"errors"
	"strings"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/internal/modules/course/dto"
	"coursematch.com/backend/internal/modules/course/repository"
	"coursematch.com/backend/pkg/apperror"
	"coursematch.com/backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgAddFailed       = "Failed To Add Course"
	msgAlreadyEnrolled = "You are already enrolled in this course"
	msgRemoveFailed    = "Failed to Remove Course"
)

type CourseService interface {
	// ResolveCoursesForProfile lists the profile's courses matching query,
	// each with at most one chosen section per kind.
	ResolveCoursesForProfile(ctx context.Context, profileID uuid.UUID, query string) ([]dto.EnrolledCourseResponse, error)
	SearchCatalog(ctx context.Context, query string) ([]dto.CatalogCourseResponse, error)
	AddCourse(ctx context.Context, profileID uuid.UUID, code string) error
	RemoveCourse(ctx context.Context, profileID uuid.UUID, code string) error
}

type courseService struct {
	repo repository.CourseRepository
	log  *logger.Logger
}

func NewCourseService(repo repository.CourseRepository, log *logger.Logger) CourseService {
	return &courseService{repo: repo, log: log}
}

func (s *courseService) ResolveCoursesForProfile(ctx context.Context, profileID uuid.UUID, query string) ([]dto.EnrolledCourseResponse, error) {
	courses, err := s.repo.EnrolledCourses(ctx, profileID, query)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(courses))
	for _, c := range courses {
		codes = append(codes, c.Code)
	}

	scheduled, err := s.repo.ScheduledSections(ctx, profileID, codes)
	if err != nil {
		return nil, err
	}
	chosen := groupSections(scheduled)

	result := make([]dto.EnrolledCourseResponse, 0, len(courses))
	for _, c := range courses {
		byKind := chosen[c.Code]
		result = append(result, dto.EnrolledCourseResponse{
			Code:       c.Code,
			Department: c.Department,
			Lecture:    dto.NewSectionResponse(first(byKind[entity.KindLecture])),
			Tutorial:   dto.NewSectionResponse(first(byKind[entity.KindTutorial])),
			Lab:        dto.NewSectionResponse(first(byKind[entity.KindLab])),
		})
	}
	return result, nil
}

func (s *courseService) SearchCatalog(ctx context.Context, query string) ([]dto.CatalogCourseResponse, error) {
	courses, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(courses))
	for _, c := range courses {
		codes = append(codes, c.Code)
	}

	sections, err := s.repo.SectionsForCourses(ctx, codes)
	if err != nil {
		return nil, err
	}
	grouped := groupSections(sections)

	result := make([]dto.CatalogCourseResponse, 0, len(courses))
	for _, c := range courses {
		byKind := grouped[c.Code]
		result = append(result, dto.CatalogCourseResponse{
			Code:       c.Code,
			Department: c.Department,
			Lectures:   toResponses(byKind[entity.KindLecture]),
			Tutorials:  toResponses(byKind[entity.KindTutorial]),
			Labs:       toResponses(byKind[entity.KindLab]),
		})
	}
	return result, nil
}

// AddCourse enrolls the profile and attaches the default section of each
// kind that exists. The section inserts are not atomic with the enrollment.
func (s *courseService) AddCourse(ctx context.Context, profileID uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperror.Invalid(msgAddFailed)
	}

	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(msgAddFailed)
		}
		return err
	}

	enrolled, err := s.repo.IsEnrolled(ctx, profileID, code)
	if err != nil {
		return err
	}
	if enrolled {
		return apperror.Conflict(msgAlreadyEnrolled)
	}

	if err := s.repo.Enroll(ctx, profileID, code); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict(msgAlreadyEnrolled)
		}
		return err
	}

	for _, kind := range entity.SectionKinds {
		section, err := s.repo.FindSection(ctx, code, entity.DefaultSectionLabel[kind])
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		if err := s.repo.AddSection(ctx, profileID, section.ID); err != nil {
			return err
		}
	}

	s.log.Debug("course added", "profile_id", profileID, "code", code)
	return nil
}

func (s *courseService) RemoveCourse(ctx context.Context, profileID uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperror.Invalid(msgRemoveFailed)
	}

	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(msgRemoveFailed)
		}
		return err
	}

	return s.repo.Unenroll(ctx, profileID, code)
}

// groupSections buckets sections by course and kind, each bucket sorted by
// numeric suffix.
func groupSections(sections []*entity.ClassSection) map[string]map[entity.SectionKind][]*entity.ClassSection {
	grouped := make(map[string]map[entity.SectionKind][]*entity.ClassSection)
	for _, sec := range sections {
		byKind, ok := grouped[sec.CourseCode]
		if !ok {
			byKind = make(map[entity.SectionKind][]*entity.ClassSection)
			grouped[sec.CourseCode] = byKind
		}
		byKind[sec.Kind] = append(byKind[sec.Kind], sec)
	}
	for _, byKind := range grouped {
		for _, list := range byKind {
			entity.SortSections(list)
		}
	}
	return grouped
}

func first(sections []*entity.ClassSection) *entity.ClassSection {
	if len(sections) == 0 {
		return nil
	}
	return sections[0]
}

func toResponses(sections []*entity.ClassSection) []dto.SectionResponse {
	out := make([]dto.SectionResponse, 0, len(sections))
	for _, sec := range sections {
		out = append(out, *dto.NewSectionResponse(sec))
	}
	return out
}
