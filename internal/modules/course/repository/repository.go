package repository

import (
	"context"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Course, error)
	// Search matches code or department, case-insensitively, ordered by code.
	Search(ctx context.Context, query string) ([]*entity.Course, error)
	SectionsForCourses(ctx context.Context, codes []string) ([]*entity.ClassSection, error)
	FindSection(ctx context.Context, code, label string) (*entity.ClassSection, error)

	EnrolledCourses(ctx context.Context, profileID uuid.UUID, query string) ([]*entity.Course, error)
	ScheduledSections(ctx context.Context, profileID uuid.UUID, codes []string) ([]*entity.ClassSection, error)
	IsEnrolled(ctx context.Context, profileID uuid.UUID, code string) (bool, error)
	Enroll(ctx context.Context, profileID uuid.UUID, code string) error
	AddSection(ctx context.Context, profileID uuid.UUID, sectionID uint) error
	// Unenroll drops the enrollment and every schedule entry of that course.
	Unenroll(ctx context.Context, profileID uuid.UUID, code string) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindByCode(ctx context.Context, code string) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).First(&course, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Search(ctx context.Context, query string) ([]*entity.Course, error) {
	cond, args := database.ContainsAny(query, "courses.code", "courses.department")

	var courses []*entity.Course
	if err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("courses.code").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) SectionsForCourses(ctx context.Context, codes []string) ([]*entity.ClassSection, error) {
	var sections []*entity.ClassSection
	if len(codes) == 0 {
		return sections, nil
	}
	if err := r.db.WithContext(ctx).
		Where("course_code IN ?", codes).
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *courseRepository) FindSection(ctx context.Context, code, label string) (*entity.ClassSection, error) {
	var section entity.ClassSection
	if err := r.db.WithContext(ctx).
		Where("course_code = ? AND section = ?", code, label).
		First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *courseRepository) EnrolledCourses(ctx context.Context, profileID uuid.UUID, query string) ([]*entity.Course, error) {
	cond, args := database.ContainsAny(query, "courses.code", "courses.department")

	var courses []*entity.Course
	if err := r.db.WithContext(ctx).
		Joins("JOIN profile_courses ON profile_courses.course_code = courses.code").
		Where("profile_courses.profile_id = ?", profileID).
		Where(cond, args...).
		Order("courses.code").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) ScheduledSections(ctx context.Context, profileID uuid.UUID, codes []string) ([]*entity.ClassSection, error) {
	var sections []*entity.ClassSection
	if len(codes) == 0 {
		return sections, nil
	}
	if err := r.db.WithContext(ctx).
		Joins("JOIN profile_sections ON profile_sections.section_id = class_sections.id").
		Where("profile_sections.profile_id = ?", profileID).
		Where("class_sections.course_code IN ?", codes).
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, profileID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Enrollment{}).
		Where("profile_id = ? AND course_code = ?", profileID, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) Enroll(ctx context.Context, profileID uuid.UUID, code string) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&entity.Enrollment{ProfileID: profileID, CourseCode: code}).Error
}

func (r *courseRepository) AddSection(ctx context.Context, profileID uuid.UUID, sectionID uint) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ScheduleEntry{ProfileID: profileID, SectionID: sectionID}).Error
}

func (r *courseRepository) Unenroll(ctx context.Context, profileID uuid.UUID, code string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("profile_id = ? AND course_code = ?", profileID, code).
			Delete(&entity.Enrollment{}).Error; err != nil {
			return err
		}

		sectionIDs := tx.Model(&entity.ClassSection{}).
			Select("id").
			Where("course_code = ?", code)

		return tx.
			Where("profile_id = ? AND section_id IN (?)", profileID, sectionIDs).
			Delete(&entity.ScheduleEntry{}).Error
	})
}
