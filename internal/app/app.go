package app

import (
	"codementor_backend/internal/config"
	"codementor_backend/internal/controller"
	"codementor_backend/internal/repository"
	"codementor_backend/internal/service"
	"codementor_backend/pkg/database"
	"codementor_backend/pkg/logger"
	"codementor_backend/pkg/monitoring"
	"codementor_backend/pkg/security"
	"codementor_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	configCallbacks []func(*config.Config)
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 热更新配置。只替换无需重启即可生效的部分。
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded")
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	challenge    *repository.ChallengeRepository
	mcq          *repository.MCQRepository
	learningPath *repository.LearningPathRepository
	progress     *repository.ProgressRepository
	test         *repository.TestRepository
	testAttempt  *repository.TestAttemptRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	progress     *service.ProgressService
	executor     *service.CodeExecutionService
	challenge    *service.ChallengeService
	mcq          *service.MCQService
	learningPath *service.LearningPathService
	test         *service.TestService
	attempt      *service.AttemptService
	ai           *service.AIService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	challenge    *controller.ChallengeController
	mcq          *controller.MCQController
	learningPath *controller.LearningPathController
	progress     *controller.ProgressController
	test         *controller.TestController
	attempt      *controller.AttemptController
	ai           *controller.AIController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		challenge:    repository.NewChallengeRepository(db),
		mcq:          repository.NewMCQRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		progress:     repository.NewProgressRepository(db),
		test:         repository.NewTestRepository(db),
		testAttempt:  repository.NewTestAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, repos.progress, repos.testAttempt)
	s.course = service.NewCourseService(repos.course)
	s.progress = service.NewProgressService(repos.progress, repos.user)
	s.executor = service.NewCodeExecutionService(cfg.Judge0)
	s.challenge = service.NewChallengeService(repos.challenge, s.progress, s.executor)
	s.mcq = service.NewMCQService(repos.mcq, s.progress)
	s.learningPath = service.NewLearningPathService(repos.learningPath, repos.course)
	s.test = service.NewTestService(repos.test, repos.testAttempt, repos.user, rdb)
	s.attempt = service.NewAttemptService(s.test)
	s.ai = service.NewAIService(cfg.AI)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		user:         controller.NewUserController(s.user, s.storage),
		course:       controller.NewCourseController(s.course, s.progress),
		challenge:    controller.NewChallengeController(s.challenge, s.executor),
		mcq:          controller.NewMCQController(s.mcq),
		learningPath: controller.NewLearningPathController(s.learningPath),
		progress:     controller.NewProgressController(s.progress),
		test:         controller.NewTestController(s.test, s.ai),
		attempt:      controller.NewAttemptController(s.attempt),
		ai:           controller.NewAIController(s.ai, s.test),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("codementor-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
