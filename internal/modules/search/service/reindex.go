package search

import (
	"context"

	"coursematch.com/backend/internal/entity"
	"coursematch.com/backend/pkg/logger"
	"gorm.io/gorm"
)

const reindexBatchSize = 100

// Reindexer pushes the whole catalog and every profile into the search
// indexes. Profile writes already index incrementally; this repairs drift.
type Reindexer struct {
	db    *gorm.DB
	meili MeiliSearchService
	log   *logger.Logger
}

func NewReindexer(db *gorm.DB, meili MeiliSearchService, log *logger.Logger) *Reindexer {
	return &Reindexer{db: db, meili: meili, log: log}
}

func (r *Reindexer) Name() string {
	return "search-reindex"
}

func (r *Reindexer) Run(ctx context.Context) error {
	var courses []entity.Course
	if err := r.db.WithContext(ctx).
		Preload("Sections").
		Order("code").
		Find(&courses).Error; err != nil {
		return err
	}
	if err := r.meili.IndexCourses(courses); err != nil {
		return err
	}

	var indexed int
	var indexErr error
	var users []*entity.User
	res := r.db.WithContext(ctx).
		Preload("Profile").
		FindInBatches(&users, reindexBatchSize, func(tx *gorm.DB, batch int) error {
			for _, u := range users {
				if err := r.meili.IndexProfile(u); err != nil {
					indexErr = err
					return err
				}
				indexed++
			}
			return nil
		})
	if indexErr != nil {
		return indexErr
	}
	if res.Error != nil {
		return res.Error
	}

	r.log.Info("search reindex finished", "courses", len(courses), "profiles", indexed)
	return nil
}
