package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-share-api/config"
	"file-share-api/internal/application/ports"
	"file-share-api/internal/application/services"
	"file-share-api/internal/domain/file"
	"file-share-api/internal/infrastructure/db/postgres"
	fileDB "file-share-api/internal/infrastructure/db/postgres/file"
	userDB "file-share-api/internal/infrastructure/db/postgres/user"
	"file-share-api/internal/infrastructure/jwt"
	applog "file-share-api/internal/infrastructure/logger"
	"file-share-api/internal/infrastructure/metrics"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/s3"
	"file-share-api/internal/infrastructure/scheduler"
	"file-share-api/internal/infrastructure/storage"
	"file-share-api/internal/interface/api/rest"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/pkg/rmqconsumer"
)

// multipart parts above this size spill to temp files
const maxMultipartMemory = 8 << 20

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	storage    ports.ByteStorage
	janitor    *storage.Janitor
	compactor  *scheduler.Compactor
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// config
	envErr := godotenv.Load(".env")
	cfg := config.Load()

	// logger
	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	if envErr != nil {
		logger.Warn("no .env file loaded, using process environment", zap.Error(envErr))
	}
	if err = config.Validate(cfg); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err = postgres.Migrate(ctx, logger, dbPool); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// byte storage
	var store ports.ByteStorage
	switch cfg.Storage.Driver {
	case config.StorageLocal:
		store, err = storage.NewLocal(logger, cfg.Storage.LocalPath)
	default:
		store, err = s3.New(ctx, logger, cfg.S3)
	}
	if err != nil {
		logger.Fatal("failed to init byte storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	janitor := storage.NewJanitor(logger, store)

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	//rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		db:         dbPool,
		storage:    store,
		janitor:    janitor,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
	}, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	// workers outlive the HTTP server so requests drained during shutdown
	// still reach the publisher and the janitor
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(workerCtx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(workerCtx)
		return nil
	})

	g.Go(func() error {
		a.janitor.Worker(workerCtx)
		return nil
	})

	if a.compactor != nil {
		g.Go(func() error {
			return a.compactor.Run(workerCtx)
		})
	}

	<-gCtx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
	}
	stopWorkers()

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := userDB.NewRepository(a.db)
	fileRepo := fileDB.NewRepository(a.db)

	policy := file.Policy{
		Link:              file.LinkPolicy(a.cfg.Share.LinkPolicy),
		AllowSharedDelete: a.cfg.Share.AllowSharedDelete,
	}
	a.logger.Info("access policy",
		zap.String("link", string(policy.Link)),
		zap.Bool("allow_shared_delete", policy.AllowSharedDelete),
	)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(jwtService)
	userService := services.NewUserService(userRepo, a.mCounter)
	fileService := services.NewFileService(a.logger, fileRepo, a.storage, a.janitor, a.mq, a.mCounter, policy)
	shareService := services.NewShareService(a.logger, fileRepo, userRepo, a.storage, a.mq, a.mCounter, policy)

	// jobs
	a.compactor = scheduler.NewCompactor(a.logger, fileRepo, a.cfg.Share.CompactEvery, a.cfg.Share.CompactGrace)

	// controllers
	publicURL := a.cfg.App.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + a.cfg.App.Port
	}
	secureCookie := gin.Mode() == gin.ReleaseMode
	rest.NewAuthController(a.router, a.logger, userService, authService, jwtService, secureCookie)
	rest.NewFileController(a.router, a.logger, fileService, jwtService)
	rest.NewShareController(a.router, a.logger, shareService, jwtService, publicURL)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
