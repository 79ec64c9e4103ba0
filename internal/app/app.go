package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"secplus_backend/internal/config"
	"secplus_backend/internal/controller"
	"secplus_backend/internal/event"
	"secplus_backend/internal/quiz"
	"secplus_backend/internal/repository"
	"secplus_backend/internal/service"
	"secplus_backend/pkg/configwatcher"
	"secplus_backend/pkg/database"
	"secplus_backend/pkg/logger"
	"secplus_backend/pkg/monitoring"
	"secplus_backend/pkg/security"
	"secplus_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	configFile      string
	services        *services
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	events          event.Publisher
	configMu        sync.Mutex
	configCallbacks []func(*config.Config)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type repositories struct {
	question *repository.QuestionRepository
	progress *repository.ProgressRepository
}

type services struct {
	quiz      *service.QuizService
	flashcard *service.FlashcardService
	progress  *service.ProgressService
	question  *service.QuestionService
}

type controllers struct {
	quiz      *controller.QuizController
	flashcard *controller.FlashcardController
	progress  *controller.ProgressController
	question  *controller.QuestionController
	health    *controller.HealthController
}

// RegisterConfigCallback adds a hook run with every reloaded config.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configMu.Lock()
	defer a.configMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.configMu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.configMu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	question := repository.NewQuestionRepository(db, rdb)
	if cfg.Quiz.CountCacheTTL > 0 {
		question.CacheTTL = cfg.Quiz.CountCacheTTL
	}
	return &repositories{
		question: question,
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	catalog := quiz.DefaultCatalog().WithWeights(cfg.Quiz.Weights())
	registry := quiz.NewRegistry(quiz.WithRegistryLogger(logger.Named("quiz.registry")))
	assembler := quiz.NewAssembler(repos.question, registry,
		quiz.WithCatalog(catalog),
		quiz.WithPoolSize(cfg.Quiz.CandidatePoolSize),
		quiz.WithLogger(logger.Named("quiz.assembler")),
	)

	s.progress = service.NewProgressService(repos.progress)
	s.quiz = service.NewQuizService(registry, assembler, repos.question, s.progress, a.events, cfg.Quiz)
	s.flashcard = service.NewFlashcardService(repos.question, catalog, s.progress, a.events, cfg.Quiz.FlashcardTimeout)

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		// imports answer 503 until storage is fixed; everything else works
		logger.Log.Warn("Question bank storage unavailable", zap.String("type", cfg.Storage.Type), zap.Error(err))
		storage = nil
	}
	s.question = service.NewQuestionService(repos.question, storage, cfg.Storage.QuestionBankKey)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		quiz:      controller.NewQuizController(s.quiz),
		flashcard: controller.NewFlashcardController(s.flashcard),
		progress:  controller.NewProgressController(s.progress),
		question:  controller.NewQuestionController(s.question),
		health:    controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) initEvents(cfg *config.Config) event.Publisher {
	if !cfg.Events.Enabled {
		return event.NopPublisher{}
	}
	p, err := event.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, logger.Named("events"))
	if err != nil {
		logger.Log.Error("Failed to connect to message broker, events disabled", zap.Error(err))
		return event.NopPublisher{}
	}
	logger.Log.Info("Event publisher connected", zap.String("exchange", cfg.Events.Exchange))
	return p
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.limiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) registerConfigCallbacks() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.services.quiz.SetSessionTimeout(cfg.Quiz.SessionTimeout)
		a.services.flashcard.SetTimeout(cfg.Quiz.FlashcardTimeout)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.limiter.Update(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	})
}

// startBackgroundTasks runs the session sweeps and the config watcher until
// ctx is cancelled.
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	interval := a.Config.Quiz.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.quiz.SweepExpired()
				s.flashcard.SweepExpired()
			}
		}
	}()

	if a.configFile == "" {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := configwatcher.WatchConfig(ctx, a.configFile, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// NewApp wires the application. configDir is the directory holding
// config.yaml; it is watched for changes while the server runs.
func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb
	if configDir != "" {
		app.configFile = filepath.Join(configDir, "config.yaml")
	}

	app.events = app.initEvents(cfg)
	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	app.registerRoutes(router, controllers, cfg)
	app.registerConfigCallbacks()

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, app.services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close stops background work and releases external connections.
func (a *App) Close(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.events != nil {
		a.events.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
