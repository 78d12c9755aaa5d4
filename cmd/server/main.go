package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "github.com/SkAltmash/ZapSplit/internal/api/http"
	"github.com/SkAltmash/ZapSplit/internal/config"
	"github.com/SkAltmash/ZapSplit/internal/logger"
	"github.com/SkAltmash/ZapSplit/internal/push"
	"github.com/SkAltmash/ZapSplit/internal/repository/postgres"
	"github.com/SkAltmash/ZapSplit/internal/security"
	"github.com/SkAltmash/ZapSplit/internal/service"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ZapSplit Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Push Sender
	var pushSender push.Sender
	if cfg.Firebase.CredentialsFile == "" {
		logger.Info("Firebase credentials not configured, push notifications disabled")
		pushSender = push.NopSender{}
	} else {
		pushSender, err = push.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM sender", "error", err)
			log.Fatalf("Failed to initialize FCM sender: %v", err)
		}
		logger.Info("FCM push sender initialized", "credentials_file", cfg.Firebase.CredentialsFile)
	}

	// Initialize Services
	// Due-reminder email runs from the cronjob binary, not here.
	projector := service.NewProjector(
		store.NotificationRepository,
		store.ConversationRepository,
		store.UserRepository,
		pushSender,
	)
	authSvc := service.NewAuthService(store.UserRepository, store.WalletRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository, store.WalletRepository)
	ledgerSvc := service.NewLedgerService(
		store,
		store.UserRepository,
		store.WalletRepository,
		store.TransactionRepository,
		projector,
		cfg.PayLater.DueDays,
		decimal.NewFromInt(int64(cfg.Rewards.ReferralAmount)),
	)
	splitSvc := service.NewSplitService(
		store.SplitRepository,
		store.UserRepository,
		store.TransactionRepository,
		projector,
	)
	payLaterSvc := service.NewPayLaterService(store.WalletRepository, store.PayLaterRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	convSvc := service.NewConversationService(store.ConversationRepository)

	// Set up HTTP server
	authMW := httpapi.NewAuthMiddleware(tokenManager)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:     authSvc,
		Users:    userSvc,
		Ledger:   ledgerSvc,
		Splits:   splitSvc,
		PayLater: payLaterSvc,
		Notes:    noteSvc,
		Convs:    convSvc,
	}, authMW)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
