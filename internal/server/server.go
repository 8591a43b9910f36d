package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/axpress-labs/scholard/config"
	"github.com/axpress-labs/scholard/internal/cache"
	"github.com/axpress-labs/scholard/internal/files"
	"github.com/axpress-labs/scholard/internal/index"
	"github.com/axpress-labs/scholard/internal/recommend"
	"github.com/axpress-labs/scholard/internal/runtime"
	"github.com/axpress-labs/scholard/internal/search"
	"github.com/axpress-labs/scholard/internal/store"
	"github.com/axpress-labs/scholard/provider"
	"github.com/axpress-labs/scholard/source/arxiv"
)

func authMiddleware(secret []byte) echo.MiddlewareFunc {
	return runtime.EchoAuthMiddleware(secret)
}

// Run wires the pipeline together and serves HTTP until the listener
// stops.
func Run(cfg *config.Config) error {
	e := newEcho()

	ctx := context.Background()

	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	llm, err := provider.NewProvider(provider.AzureOpenAI, cfg.Providers)
	if err != nil {
		return err
	}

	// Redis is optional; without it the day cache lives in-process.
	var searchCache cache.Store
	if cfg.Storage.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
		searchCache = cache.NewRedisStore(rdb)
	} else {
		searchCache = cache.NewMemoryStore()
	}

	storage, err := files.NewStorage(cfg.Storage.File.ResearchDir, cfg.Source.ArXiv.Timeout)
	if err != nil {
		return err
	}
	paperIndex, err := index.New()
	if err != nil {
		return err
	}

	orchLogger := log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	orch := &search.Orchestrator{
		Source: arxiv.NewClient(cfg.Source.ArXiv),
		Recommender: &recommend.Requester{
			LLM:    llm,
			Logger: log.New(log.Writer(), "[RECOMMEND] ", log.LstdFlags),
		},
		Cache:   searchCache,
		Records: st,
		Index:   paperIndex,
		Target:  cfg.Research.TargetCount,
		Logger:  orchLogger,
	}

	secret, err := runtime.LoadJWTSecret(cfg)
	if err != nil {
		return err
	}

	api := e.Group("/api")
	auth := &AuthHandler{Store: st, Secret: secret}
	auth.Register(api.Group("/auth"))

	rh := &ResearchHandler{
		Orch:   orch,
		Files:  storage,
		Store:  st,
		Index:  paperIndex,
		Logger: log.New(log.Writer(), "[RESEARCH] ", log.LstdFlags),
	}
	rh.Register(api, secret)

	addr := cfg.Server.Listen
	if addr == "" {
		addr = ":10020"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo instance with the shared middleware, error
// envelope and operational endpoints.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
