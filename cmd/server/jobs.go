package main

import (
	"coursematch.com/backend/internal/config"
	searchService "coursematch.com/backend/internal/modules/search/service"
	"coursematch.com/backend/internal/scheduler"
	"coursematch.com/backend/pkg/logger"
	"gorm.io/gorm"
)

// registerJobs adds the maintenance jobs this deployment can run. The search
// reindex only exists when meilisearch is configured.
func registerJobs(jobs *scheduler.Scheduler, cfg *config.Config, db *gorm.DB, meili searchService.MeiliSearchService, searchEnabled bool, appLog *logger.Logger) error {
	if !searchEnabled {
		return nil
	}
	return jobs.Register(cfg.SearchReindexSchedule, searchService.NewReindexer(db, meili, appLog))
}
