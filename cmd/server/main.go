package main

import (
	"context"
	"flag"
	"log"
	"time"

	"coursematch.com/backend/internal/bootstrap"
	"coursematch.com/backend/internal/config"
	searchService "coursematch.com/backend/internal/modules/search/service"
	"coursematch.com/backend/internal/scheduler"
	"coursematch.com/backend/internal/server"
	"coursematch.com/backend/pkg/database"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/session"
	"coursematch.com/backend/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	runJob := flag.String("run-job", "", "run the named maintenance job once and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("failed to connect database", "error", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}

	redisClient := connectRedis(cfg.RedisURL, appLog)

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		meiliClient = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	meili := searchService.NewMeiliSearchService(meiliClient, appLog)

	if cfg.SeedCatalog {
		catalog, err := bootstrap.SeedCatalog(db)
		if err != nil {
			appLog.Fatal("failed to seed catalog", "error", err)
		}
		if err := meili.IndexCourses(catalog); err != nil {
			appLog.Warn("failed to index catalog", "error", err)
		}
		appLog.Info("catalog seeded", "courses", len(catalog))
	}

	jobs := scheduler.New(appLog)
	if err := registerJobs(jobs, cfg, db, meili, meiliClient != nil, appLog); err != nil {
		appLog.Warn("search reindex disabled", "error", err)
	}
	if *runJob != "" {
		if err := jobs.RunNow(context.Background(), *runJob); err != nil {
			appLog.Fatal("job failed", "job", *runJob, "error", err)
		}
		appLog.Info("job finished", "job", *runJob)
		return
	}
	jobs.Start()
	defer jobs.Stop()

	imageStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder)
	if err != nil {
		appLog.Warn("avatar uploads disabled", "error", err)
	}

	var revocations session.Revocations = session.NewDBRevocations(db)
	if redisClient != nil {
		revocations = session.NewRedisRevocations(redisClient)
	}
	sessions := session.NewManager(session.Options{
		Secret:      cfg.JWTSecret,
		CookieName:  cfg.SessionCookieName,
		Secure:      cfg.SessionCookieSecure,
		TTL:         cfg.SessionTTL,
		RememberTTL: cfg.SessionRememberTTL,
	}, revocations)

	srv := server.NewServer(server.Deps{
		Config:       cfg,
		DB:           db,
		RedisClient:  redisClient,
		ImageStorage: imageStorage,
		Meili:        meili,
		Sessions:     sessions,
		Log:          appLog,
	})

	appLog.Info("server starting", "port", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		appLog.Fatal("server exited with error", "error", err)
	}
}

// connectRedis returns nil when redis is not configured or unreachable;
// features that need it degrade instead of failing startup.
func connectRedis(url string, appLog *logger.Logger) *redis.Client {
	if url == "" {
		appLog.Warn("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		appLog.Warn("invalid REDIS_URL, running without redis", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		appLog.Warn("redis unreachable, running without redis", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
