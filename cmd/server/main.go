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

	"github.com/costmanagement/backend/internal/config"
	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/handler"
	"github.com/costmanagement/backend/internal/logging"
	"github.com/costmanagement/backend/internal/repository"
	"github.com/costmanagement/backend/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}

	if cfg.AutoMigrate {
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			logging.Fatal("failed to run migrations", "error", err)
		}
		slog.Info("migrations applied")
	}

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	store := repository.NewPgStore(pool, cfg.FanoutLimit)
	clock := cost.SystemClock{}
	services := handler.Services{
		Project:  service.NewProjectService(store, clock),
		Cost:     service.NewCostService(store, clock),
		Employee: service.NewEmployeeService(store.Employees()),
		Event:    service.NewEventService(store),
		Chart:    service.NewChartService(store, clock),
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.NewRouter(store, services, handler.RouterConfig{
			FrontendURL:        cfg.FrontendURL,
			RateLimitPerMinute: cfg.RateLimitRPM,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "fanout_limit", cfg.FanoutLimit)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
