package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"venue-booking/cmd"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/notify"
	"venue-booking/internal/wire"
	"venue-booking/pkg/database"
	"venue-booking/pkg/metrics"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	seedPath := flag.String("seed", "", "path to a TOML seed file with the admin account and function types")
	flag.Parse()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Location().String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	var m *metrics.Metrics
	if config.Metrics.Enabled {
		m = metrics.New("venue_booking")
	}

	// Notifications
	senders := []notify.Sender{notify.NewEmailSender(config.Email, logger)}
	if config.SMS.Enabled() {
		senders = append(senders, notify.NewSMSSender(config.SMS, config.Email.FromName, logger))
	} else {
		logger.Info("Twilio credentials not set, SMS notifications disabled")
	}
	dispatcher := notify.NewDispatcher(notify.Config{
		Workers:     config.Notify.Workers,
		QueueSize:   config.Notify.QueueSize,
		MaxAttempts: config.Notify.MaxAttempts,
		RetryDelay:  config.Notify.RetryDelay,
	}, senders, m, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	tx := database.NewTxManager(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, tx, dispatcher, config, m, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if *seedPath != "" {
		seed, err := cmd.LoadSeed(*seedPath)
		if err != nil {
			logger.Fatal("Failed to load seed", zap.Error(err))
		}
		if err := cmd.Seed(ctx, seed, repos.Admin, app.Service.FunctionType, logger); err != nil {
			logger.Fatal("Failed to apply seed", zap.Error(err))
		}
	}

	scheduler, err := cmd.StartScheduler(config.Session.CleanupCron, app.Service.Auth, logger)
	if err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}

	<-scheduler.Stop().Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		logger.Warn("Notification queue not fully drained", zap.Error(err))
	}

	logger.Info("Application stopped")
}
