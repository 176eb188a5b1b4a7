package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dogsalon/internal/app"
	"dogsalon/internal/cache"
	"dogsalon/internal/config"
	"dogsalon/internal/database"
	"dogsalon/internal/modules/notification"
	"dogsalon/internal/pkg/logger"
	"dogsalon/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var slotCache app.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer func() { _ = rc.Close() }()
		slotCache = rc
		log.Info("slot cache: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		slotCache = cache.NewMemory()
		log.Info("slot cache: in-process")
	}

	a, err := app.New(cfg, app.Deps{
		DB:     db,
		Cache:  slotCache,
		Mailer: notification.NewLogMailer(cfg.Mail.From, log),
		Log:    log,
	})
	if err != nil {
		log.Fatal("build application", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
}
