package search

import (
	"html"
	"strings"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/logger"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	profilesIndex = "profiles"
	coursesIndex  = "courses"
)

// MeiliSearchService mirrors profiles and the course catalog into
// Meilisearch. Relational queries stay authoritative.
type MeiliSearchService interface {
	IndexProfile(user *entity.User) error
	IndexCourses(courses []entity.Course) error
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       *logger.Logger
}

// NewMeiliSearchService returns a no-op indexer when client is nil.
func NewMeiliSearchService(client meilisearch.ServiceManager, log *logger.Logger) MeiliSearchService {
	if client == nil {
		return noopSearch{}
	}

	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	profileSearchable := []string{"first_name", "last_name", "major", "username"}
	if _, err := s.client.Index(profilesIndex).UpdateSearchableAttributes(&profileSearchable); err != nil {
		s.log.Warn("failed to update profiles searchable attributes", "error", err)
	}

	profileSortable := []string{"username"}
	if _, err := s.client.Index(profilesIndex).UpdateSortableAttributes(&profileSortable); err != nil {
		s.log.Warn("failed to update profiles sortable attributes", "error", err)
	}

	courseFilterable := []any{"department"}
	if _, err := s.client.Index(coursesIndex).UpdateFilterableAttributes(&courseFilterable); err != nil {
		s.log.Warn("failed to update courses filterable attributes", "error", err)
	}

	courseSortable := []string{"code"}
	if _, err := s.client.Index(coursesIndex).UpdateSortableAttributes(&courseSortable); err != nil {
		s.log.Warn("failed to update courses sortable attributes", "error", err)
	}

	s.log.Info("meilisearch indexes initialized")
}

type profileDoc struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Major     string  `json:"major"`
	Minor     string  `json:"minor"`
	Year      int     `json:"year"`
	GPA       float64 `json:"gpa"`
	Mood      string  `json:"mood"`
	Bio       string  `json:"bio"`
	AvatarURL string  `json:"avatar_url"`
}

type courseDoc struct {
	Code       string   `json:"code"`
	Department string   `json:"department"`
	Sections   []string `json:"sections"`
}

// cleanText strips markup and collapses whitespace.
func (s *meiliSearchService) cleanText(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(content), " ")
}

func (s *meiliSearchService) profileDocument(user *entity.User) profileDoc {
	doc := profileDoc{
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if p := user.Profile; p != nil {
		doc.Major = p.Major
		doc.Minor = p.Minor
		doc.Year = p.Year
		doc.GPA = p.GPA
		doc.Mood = p.Mood
		doc.Bio = s.cleanText(p.Bio)
		doc.AvatarURL = p.AvatarURL
	}
	return doc
}

func (s *meiliSearchService) IndexProfile(user *entity.User) error {
	doc := s.profileDocument(user)
	task, err := s.client.Index(profilesIndex).AddDocuments([]profileDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed profile", "username", user.Username, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexCourses(courses []entity.Course) error {
	if len(courses) == 0 {
		return nil
	}

	docs := make([]courseDoc, 0, len(courses))
	for _, c := range courses {
		doc := courseDoc{Code: c.Code, Department: c.Department, Sections: []string{}}
		for _, sec := range c.Sections {
			doc.Sections = append(doc.Sections, sec.Section)
		}
		docs = append(docs, doc)
	}

	task, err := s.client.Index(coursesIndex).AddDocuments(docs, strPtr("code"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed courses", "count", len(docs), "task_uid", task.TaskUID)
	return nil
}

type noopSearch struct{}

func (noopSearch) IndexProfile(*entity.User) error    { return nil }
func (noopSearch) IndexCourses([]entity.Course) error { return nil }

func strPtr(s string) *string {
	return &s
}
