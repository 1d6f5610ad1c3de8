package entity

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionKind string

const (
	KindLecture  SectionKind = "lecture"
	KindTutorial SectionKind = "tutorial"
	KindLab      SectionKind = "lab"
)

// SectionKinds lists the kinds in the order they are reported.
var SectionKinds = []SectionKind{KindLecture, KindTutorial, KindLab}

// DefaultSectionLabel is the section auto-attached on enrollment for each kind.
var DefaultSectionLabel = map[SectionKind]string{
	KindLecture:  "CO1",
	KindTutorial: "TO1",
	KindLab:      "LO1",
}

type Course struct {
	Code       string         `gorm:"size:30;primaryKey" json:"code"`
	Department string         `gorm:"size:30;not null" json:"department"`
	Sections   []ClassSection `gorm:"foreignKey:CourseCode;references:Code;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

type ClassSection struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CourseCode string      `gorm:"size:30;not null;uniqueIndex:idx_section_course_label" json:"course_code"`
	Section    string      `gorm:"size:10;not null;uniqueIndex:idx_section_course_label" json:"section"`
	Kind       SectionKind `gorm:"size:10;not null;index" json:"kind"`
	Prof       string      `gorm:"size:60" json:"prof"`
	Location   string      `gorm:"size:40" json:"location"`
	Times      string      `gorm:"size:300" json:"times"`
}

func (s *ClassSection) BeforeCreate(tx *gorm.DB) error {
	if s.Kind == "" {
		s.Kind = KindFromLabel(s.Section)
	}
	return nil
}

// KindFromLabel infers the kind of a legacy section label: a "C" marks a
// lecture, a "T" a tutorial and an "L" a lab. Unknown labels default to lecture.
func KindFromLabel(label string) SectionKind {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "C"):
		return KindLecture
	case strings.Contains(upper, "T"):
		return KindTutorial
	case strings.Contains(upper, "L"):
		return KindLab
	default:
		return KindLecture
	}
}

// SectionNumber returns the trailing digit run of a label ("CO12" -> 12).
// ok is false when the label does not end in a digit.
func SectionNumber(label string) (n int, ok bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return 0, false
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LessSection orders labels by numeric suffix; labels without one sort last,
// ties break on the label itself.
func LessSection(a, b string) bool {
	na, oka := SectionNumber(a)
	nb, okb := SectionNumber(b)
	switch {
	case oka && okb && na != nb:
		return na < nb
	case oka != okb:
		return oka
	default:
		return a < b
	}
}

func SortSections(sections []*ClassSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return LessSection(sections[i].Section, sections[j].Section)
	})
}

// Enrollment records that a profile is taking a course.
type Enrollment struct {
	ProfileID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseCode string    `gorm:"size:30;primaryKey"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Profile Profile `gorm:"foreignKey:ProfileID;references:UserID;constraint:OnDelete:CASCADE"`
	Course  Course  `gorm:"foreignKey:CourseCode;references:Code;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string { return "profile_courses" }

// ScheduleEntry is the section a profile picked for one of its courses.
type ScheduleEntry struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SectionID uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Profile Profile      `gorm:"foreignKey:ProfileID;references:UserID;constraint:OnDelete:CASCADE"`
	Section ClassSection `gorm:"foreignKey:SectionID;references:ID;constraint:OnDelete:CASCADE"`
}

func (ScheduleEntry) TableName() string { return "profile_sections" }
