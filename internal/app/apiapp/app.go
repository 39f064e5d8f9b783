package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jagaldol/my-fitness-server/internal/config"
	"github.com/jagaldol/my-fitness-server/internal/jobs/cleanup"
	pgrepo "github.com/jagaldol/my-fitness-server/internal/repo/postgres"
	redrepo "github.com/jagaldol/my-fitness-server/internal/repo/redis"
	authsvc "github.com/jagaldol/my-fitness-server/internal/services/auth"
	ratesvc "github.com/jagaldol/my-fitness-server/internal/services/rate"
	userssvc "github.com/jagaldol/my-fitness-server/internal/services/users"
	workoutsvc "github.com/jagaldol/my-fitness-server/internal/services/workout"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	cleanup    *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	userRepo := pgrepo.NewUserRepo(pool)
	refreshTokenRepo := pgrepo.NewRefreshTokenRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	recordRepo := pgrepo.NewRecordRepo(pool)
	setRecordRepo := pgrepo.NewSetRecordRepo(pool)
	txManager := pgrepo.NewTxManager(pool)

	tokenManager := authsvc.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	authService := authsvc.NewService(tokenManager, userRepo, refreshTokenRepo)
	loginLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.LoginPerMinute,
		cfg.Limits.LoginPer10Seconds,
	)
	authService.AttachLoginLimiter(loginLimiter)
	userService := userssvc.NewService(userRepo)
	workoutService := workoutsvc.NewService(workoutsvc.Dependencies{
		UnitOfWork: txManager,
		Users:      userRepo,
		Sessions:   sessionRepo,
		Records:    recordRepo,
		SetRecords: setRecordRepo,
	})

	cleanupJob := cleanup.New(refreshTokenRepo, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		UserService:    userService,
		WorkoutService: workoutService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		cleanup:    cleanupJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.cleanup.Start(ctx, a.cfg.Jobs.TokenCleanupInterval)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
