package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colpy_backend/internal/config"
	"colpy_backend/internal/controller"
	"colpy_backend/internal/repository"
	"colpy_backend/internal/service"
	"colpy_backend/pkg/configwatcher"
	"colpy_backend/pkg/database"
	"colpy_backend/pkg/logger"
	"colpy_backend/pkg/monitoring"
	"colpy_backend/pkg/security"
	"colpy_backend/pkg/tracing"

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
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	unit        *repository.UnitRepository
	submission  *repository.SubmissionRepository
	progress    *repository.ProgressRepository
	enrollment  *repository.EnrollmentRepository
	transaction *repository.TransactionRepository
}

type services struct {
	email      service.EmailSender
	storage    *service.StorageService
	auth       *service.AuthService
	user       *service.UserService
	course     *service.CourseService
	progress   *service.ProgressService
	submission *service.SubmissionService
	enrollment *service.EnrollmentService
	payment    *service.PaymentService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	submission *controller.SubmissionController
	progress   *controller.ProgressController
	enrollment *controller.EnrollmentController
	payment    *controller.PaymentController
	upload     *controller.UploadController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		unit:        repository.NewUnitRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		progress:    repository.NewProgressRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		transaction: repository.NewTransactionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.email = service.NewEmailService(cfg)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, s.email, cfg)
	s.progress = service.NewProgressService(repos.progress, repos.course, repos.unit, repos.enrollment)
	s.user = service.NewUserService(repos.user, repos.enrollment, s.progress)
	s.course = service.NewCourseService(repos.course, repos.unit, rdb)
	s.submission = service.NewSubmissionService(
		repos.submission,
		repos.unit,
		repos.user,
		repos.enrollment,
		repos.progress,
		s.progress,
		s.email,
		db,
	)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, s.progress)
	s.payment = service.NewPaymentService(repos.transaction, repos.enrollment, repos.course, &cfg.Paystack)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course),
		submission: controller.NewSubmissionController(s.submission),
		progress:   controller.NewProgressController(s.progress),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		payment:    controller.NewPaymentController(s.payment),
		upload:     controller.NewUploadController(s.storage),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
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

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 目录缓存可降级，Redis 不可用不阻塞启动
		logger.Log.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("colpy-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 配置热更新：只接管可动态调整的部分
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			app.Config.RateLimit = c.RateLimit
			app.Config.Email = c.Email
			logger.Log.Info("Config reloaded")
		}
	})

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
