package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/digestboard/config"
	"github.com/mohammad-safakhou/digestboard/internal/pipeline"
	"github.com/mohammad-safakhou/digestboard/internal/runtime"
	"github.com/mohammad-safakhou/digestboard/internal/status"
	"github.com/mohammad-safakhou/digestboard/internal/synthos"
	"github.com/mohammad-safakhou/digestboard/repository"
	"github.com/mohammad-safakhou/digestboard/repository/redis_repository"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the shared services the API is built from.
type Deps struct {
	Config *config.Config
	Loader *pipeline.Loader
	Flags  status.Pair
	Remote Remote
	Logger *log.Logger
}

// NewEcho builds the router with middleware and every route mounted.
func NewEcho(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.HTTPErrorHandler = errorHandler(d.Logger)
	origins := cfg.Server.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	if secret, err := runtime.LoadJWTSecret(cfg); err == nil {
		api.Use(runtime.EchoAuthMiddleware(secret))
	}

	topics := api.Group("/topics")
	th := &TopicsHandler{
		Loader:        d.Loader,
		Flags:         d.Flags,
		Remote:        d.Remote,
		View:          cfg.View,
		DefaultWindow: cfg.Pipeline.DefaultWindow,
	}
	th.Register(topics)
	sh := &StatusHandler{Flags: d.Flags}
	sh.Register(api, topics)
	gh := &GroupsHandler{Remote: d.Remote}
	gh.Register(api)
	return e
}

// componentLogger is silenced when general.log_level is above info. [HTTP] always logs.
func componentLogger(cfg *config.Config, prefix string) *log.Logger {
	return log.New(cfg.General.LogWriter(log.Writer()), prefix, log.LstdFlags)
}

// Run wires the configured backends and serves until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	backend, err := repository.NewFlagRepository(cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()
	flags := status.NewPair(backend, componentLogger(cfg, "[STATUS] "))

	remote := synthos.New(cfg.Remote, componentLogger(cfg, "[REMOTE] "))
	pipeLogger := componentLogger(cfg, "[PIPE] ")
	loader := pipeline.NewLoader(pipeline.New(remote, pipeLogger), pipeline.NewBoard(), cfg.Pipeline.Throttle, pipeLogger)

	if spec := cfg.Pipeline.RefreshCron; spec != "" {
		if !ValidCron(spec) {
			return fmt.Errorf("pipeline.refresh_cron %q is not a valid schedule", spec)
		}
		var rdb *redis.Client
		if cfg.Storage.Redis.Enabled() {
			r := cfg.Storage.Redis
			rdb = redis_repository.Conn(r.Host, r.Port, r.Password, r.DB, r.Timeout)
			if err := redis_repository.Ping(ctx, rdb); err != nil {
				httpLogger.Printf("scheduler lock disabled, redis unreachable: %v", err)
				_ = rdb.Close()
				rdb = nil
			} else {
				defer rdb.Close()
			}
		}
		sched := &Scheduler{
			Loader: loader,
			Rdb:    rdb,
			Spec:   spec,
			Span:   cfg.Pipeline.DefaultWindow,
			Stop:   make(chan struct{}),
			Logger: componentLogger(cfg, "[SCHED] "),
		}
		sched.Start()
		defer close(sched.Stop)
	}

	e := NewEcho(Deps{Config: cfg, Loader: loader, Flags: flags, Remote: remote, Logger: httpLogger})

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":10001"
	}
	errCh := make(chan error, 1)
	go func() {
		httpLogger.Printf("listening on %s", addr)
		errCh <- e.Start(addr)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
