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

	"github.com/oggyb/mollie-sms/internal/cache/redis"
	"github.com/oggyb/mollie-sms/internal/config"
	"github.com/oggyb/mollie-sms/internal/db/gormdb"
	"github.com/oggyb/mollie-sms/internal/handler"
	"github.com/oggyb/mollie-sms/internal/logger"
	mesgRepo "github.com/oggyb/mollie-sms/internal/repository/gorm/message"
	routes "github.com/oggyb/mollie-sms/internal/router"
	"github.com/oggyb/mollie-sms/internal/scheduler"
	"github.com/oggyb/mollie-sms/internal/server"
	"github.com/oggyb/mollie-sms/internal/service"
	"github.com/oggyb/mollie-sms/internal/sms"
)

// @title       Mollie SMS dispatch API
// @version     1.0
// @description Queues SMS messages and hands them to the Mollie gateway, optionally scheduled for later delivery.
// @host        localhost:8080
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q: %v\n", cfg.App.LogLevel, err)
		os.Exit(1)
	}
	mainLog := log.With().Str("component", "main").Logger()

	// Init cache.
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(rootCtx); err != nil {
		mainLog.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
	}
	defer cache.Close()

	// Init DB.
	db, err := gormdb.New(cfg.PostgresDSN(), cfg.App.LogLevel)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("failed to connect db")
	}
	defer db.Close()

	// Init SMS gateway client. An unreachable gateway is not fatal: messages
	// stay pending and are retried on the next batch.
	smsClient := sms.NewMollieClient(
		cfg.Mollie.Username,
		cfg.Mollie.Password,
		sms.WithOriginator(cfg.Mollie.Originator),
		sms.WithGateway(cfg.Mollie.Gateway),
		sms.WithTimeout(cfg.Mollie.Timeout),
		sms.WithLogger(log.With().Str("component", "mollie").Logger()),
	)
	if err := smsClient.Health(rootCtx); err != nil {
		mainLog.Warn().Err(err).Msg("SMS gateway not reachable yet")
	}

	// Init repository and services.

	// Message
	msgRepository := mesgRepo.NewRepository(db)
	msgSvc := service.NewMessageService(
		msgRepository,
		smsClient,
		cache,
		*log,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxWorkers,
		cfg.Worker.PerMessageTimeout,
		service.WithGatewayLocation(cfg.Mollie.Location),
	)

	// Cron
	cron := scheduler.NewSchedulerService(
		msgSvc,
		cfg.Scheduler.Interval,
		cfg.Scheduler.BatchTimeout,
		*log,
	)

	// HTTP dependencies & server wiring.

	// Handlers
	homeHandler := handler.NewHomeHandler(smsClient)
	messageHandler := handler.NewMessageHandler(msgSvc, cron)

	// Init route dependencies
	deps := routes.AppDeps{
		Home:    homeHandler,
		Message: messageHandler,
	}

	// Init Server
	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	srv := server.New(addr, deps, *log)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		mainLog.Info().Str("addr", addr).Msg("HTTP server listening")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLog.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Start the scheduler after everything is wired up.
	if cfg.Scheduler.AutoStart {
		if err := cron.Start(); err != nil {
			mainLog.Fatal().Err(err).Msg("scheduler could not start")
		}
	} else {
		mainLog.Info().Msg("scheduler idle until started through POST /scheduler")
	}

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	mainLog.Info().Msg("shutdown signal received, starting graceful shutdown")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the scheduler (waits for in-flight batch to finish or timeout).
	if err := cron.Stop(); err != nil {
		mainLog.Error().Err(err).Msg("scheduler could not be stopped")
	}

	// Gracefully shut down the HTTP server.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLog.Error().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		mainLog.Info().Msg("HTTP server stopped")
	}

	mainLog.Info().Msg("shutdown complete")
}
