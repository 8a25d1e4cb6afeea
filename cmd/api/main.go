package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendor-platform/internal/access"
	"vendor-platform/internal/audit"
	"vendor-platform/internal/auth"
	"vendor-platform/internal/config"
	"vendor-platform/internal/db"
	"vendor-platform/internal/fieldcrypt"
	"vendor-platform/internal/httpapi"
	"vendor-platform/internal/profile"
	"vendor-platform/internal/provenance"
	"vendor-platform/internal/reporting"
	"vendor-platform/pkg/logger"
	"vendor-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	codec, err := fieldcrypt.New(cfg.Crypto.FieldKey)
	if err != nil {
		log.Error("field encryption init failed", "err", err)
		os.Exit(1)
	}

	sqlDB, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(sqlDB); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// The provenance cache is an optimization; a missing Redis degrades to
	// uncached reads instead of blocking startup.
	var rdb *redis.Client
	rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Warn("redis unavailable, provenance cache disabled", "err", err)
		rdb = nil
	} else {
		defer rdb.Close()
	}

	auditSvc := audit.NewService(audit.NewPostgresRepo(sqlDB))
	provSvc := provenance.NewService(provenance.NewPostgresRepo(sqlDB))
	accessSvc := access.NewService(access.NewPostgresRepo(sqlDB))
	profileSvc := profile.NewService(profile.NewPostgresRepo(sqlDB), codec)
	reportSvc := reporting.NewService(auditSvc, accessSvc, provSvc, reporting.NewCache(rdb, 5*time.Minute))

	h := httpapi.Handlers{
		Auth:     authManager,
		Profiles: profileSvc,
		Audits:   auditSvc,
		Access:   accessSvc,
		Reports:  reportSvc,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
