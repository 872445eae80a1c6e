package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/liftlog/workout-api/internal/auth"
	"github.com/liftlog/workout-api/internal/config"
	"github.com/liftlog/workout-api/internal/database"
	"github.com/liftlog/workout-api/internal/handler"
	"github.com/liftlog/workout-api/internal/logging"
	"github.com/liftlog/workout-api/internal/middleware"
	"github.com/liftlog/workout-api/internal/queue"
	"github.com/liftlog/workout-api/internal/repository"
	"github.com/liftlog/workout-api/internal/router"
)

const (
	shutdownTimeout = 10 * time.Second
	publishBuffer   = 256
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.Load()

	logCfg, err := config.LoadLogConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(logCfg, cfg.Env)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	queueCfg, err := config.LoadQueueConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var rdb *redis.Client
	if cacheCfg.Enabled {
		if rdb = config.NewRedisClient(redisCfg); rdb == nil {
			logger.Warn("redis unreachable, response cache disabled", "addr", redisCfg.Addr)
		} else {
			defer rdb.Close()
		}
	}

	var events queue.Publisher = queue.NopPublisher{}
	if queueCfg.Enabled {
		pub := queue.NewAMQPPublisher(queueCfg.URL)
		defer pub.Close()
		async := queue.NewAsyncPublisher(pub, publishBuffer, logger)
		defer func() {
			drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := async.Shutdown(drainCtx); err != nil {
				logger.Warn("activity events not flushed", "err", err)
			}
		}()
		events = async

		go func() {
			if err := queue.StartActivityConsumer(ctx, queueCfg, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("activity consumer stopped", "err", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	tokenCfg := auth.NewTokenConfig(cfg.JWTSecret, cfg.AccessTTL())
	creds, err := auth.NewAuthenticator(users, cfg.BcryptCost)
	if err != nil {
		return err
	}
	authMW := middleware.JWTAuth(auth.NewGate(auth.NewVerifier(tokenCfg), users))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(cfg.Env)
	e.Use(middleware.RequestLogger(logger, cfg.Env))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(
		auth.NewRegistrar(users, cfg.BcryptCost),
		creds,
		auth.NewIssuer(tokenCfg),
		users,
		events,
	), authMW)

	workouts := repository.NewWorkoutRepo(db)
	exercises := repository.NewExerciseRepo(db)
	sets := repository.NewSetRepo(db)
	router.RegisterResources(e, router.Resources{
		Workouts:  handler.NewWorkoutHandler(workouts, events),
		Exercises: handler.NewExerciseHandler(exercises, workouts, events),
		Sets:      handler.NewSetHandler(sets, exercises, events),
	}, authMW, middleware.ResponseCache(cacheCfg, rdb))

	srvErr := make(chan error, 1)
	go func() { srvErr <- e.Start(":" + cfg.Port) }()
	logger.Info("listening", "port", cfg.Port)

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
