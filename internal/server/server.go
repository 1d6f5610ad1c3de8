package server

import (
	"net/http"
	"strings"
	"time"

	"coursematch.com/backend/internal/config"
	"coursematch.com/backend/internal/middleware"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/ratelimit"
	"coursematch.com/backend/pkg/session"
	"coursematch.com/backend/pkg/storage"

	courseHttp "coursematch.com/backend/internal/modules/course/delivery/http"
	courseRepo "coursematch.com/backend/internal/modules/course/repository"
	courseService "coursematch.com/backend/internal/modules/course/service"

	notiHttp "coursematch.com/backend/internal/modules/notification/delivery/http"
	notifRepo "coursematch.com/backend/internal/modules/notification/repository"
	notifService "coursematch.com/backend/internal/modules/notification/service"

	profileHttp "coursematch.com/backend/internal/modules/profile/delivery/http"
	profileService "coursematch.com/backend/internal/modules/profile/service"

	searchService "coursematch.com/backend/internal/modules/search/service"

	socialHttp "coursematch.com/backend/internal/modules/social/delivery/http"
	socialRepo "coursematch.com/backend/internal/modules/social/repository"
	socialService "coursematch.com/backend/internal/modules/social/service"

	userHttp "coursematch.com/backend/internal/modules/user/delivery/http"
	userRepo "coursematch.com/backend/internal/modules/user/repository"
	userService "coursematch.com/backend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles the server wires into its modules.
// RedisClient, ImageStorage and Meili may be nil.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB
	RedisClient  *redis.Client
	ImageStorage storage.ImageStorage
	Meili        searchService.MeiliSearchService
	Sessions     *session.Manager
	Log          *logger.Logger
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	log := deps.Log
	meili := deps.Meili
	if meili == nil {
		meili = searchService.NewMeiliSearchService(nil, log)
	}

	userRepository := userRepo.NewUserRepository(deps.DB)
	followRepository := socialRepo.NewFollowRepository(deps.DB)

	authSvc := userService.NewAuthService(userRepository, followRepository, deps.Sessions, meili, log)
	authHandler := userHttp.NewAuthHandler(authSvc, deps.Sessions)

	profileSvc := profileService.NewProfileService(
		userRepository,
		deps.ImageStorage,
		ratelimit.New(deps.RedisClient),
		cfg.RateLimitAvatar,
		meili,
		log,
	)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	courseSvc := courseService.NewCourseService(courseRepo.NewCourseRepository(deps.DB), log)
	courseHandler := courseHttp.NewCourseHandler(courseSvc)

	origins := splitOrigins(cfg.AllowedOrigins)

	notificationSvc := notifService.NewNotificationService(notifRepo.NewNotificationRepository(deps.DB), deps.RedisClient, log)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, deps.RedisClient, origins, log)

	socialSvc := socialService.NewSocialService(userRepository, followRepository, courseSvc, notificationSvc, log)
	socialHandler := socialHttp.NewSocialHandler(socialSvc)

	router := gin.New()

	setupCORS(router, origins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/ping", "/api/notifications/ws"},
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.Sessions, log)

	api := router.Group("/api")

	// Public routes; the session is loaded when present but not required.
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)

		withSession := auth.Group("")
		withSession.Use(authMiddleware.LoadSession())
		withSession.GET("/status", authHandler.Status)
		withSession.POST("/logout", authHandler.Logout)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)

		// Profile routes
		protected.GET("/profile", profileHandler.GetProfileInfo)
		protected.PUT("/profile", profileHandler.SaveProfileInfo)
		protected.PUT("/profile/picture", profileHandler.UpdatePicture)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)
		protected.GET("/profiles/search", socialHandler.SearchProfiles)

		// Course routes
		protected.GET("/courses/mine", courseHandler.GetUserCourses)
		protected.GET("/courses/search", courseHandler.SearchCourses)
		protected.POST("/courses/enroll", courseHandler.AddCourse)
		protected.POST("/courses/drop", courseHandler.RemoveCourse)

		// Following routes
		protected.POST("/following", socialHandler.Follow)
		protected.GET("/following", socialHandler.GetFollowing)
		protected.POST("/following/remove", socialHandler.Unfollow)
		protected.DELETE("/following", socialHandler.UnfollowAll)

		// Notification routes
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	api.GET("/notifications/ws", authMiddleware.RequireStreamAuth(), notificationHandler.HandleWebSocket)

	return &Server{
		engine:      router,
		db:          deps.DB,
		redisClient: deps.RedisClient,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
