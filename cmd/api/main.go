package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/careercompass/backend/internal/api/handlers"
	"github.com/careercompass/backend/internal/api/router"
	"github.com/careercompass/backend/internal/config"
	"github.com/careercompass/backend/internal/pkg/logger"
	"github.com/careercompass/backend/internal/pkg/validator"
	"github.com/careercompass/backend/internal/providers"
	"github.com/careercompass/backend/internal/repository/mongodb"
	"github.com/careercompass/backend/internal/services"
)

var version = "dev"

// @title Career Compass API
// @version 1.0
// @description Backend for the career guidance kiosk: assessments, AI guidance, chat and subscriptions.
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.Infof("Starting career compass API version %s", version)

	store := mongodb.NewStore(cfg.Mongo)
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.ErrorWithErr(err, "Failed to close store")
		}
	}()

	profileRepo := mongodb.NewProfileRepository(store)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		// The server still starts; index creation retries on next boot.
		log.ErrorWithErr(err, "Failed to ensure indexes")
	}
	cancel()

	val := validator.New()

	paymentProvider := providers.NewStripeProvider(cfg.Stripe.SecretKey)
	chatProvider := providers.NewOpenAIProvider(cfg.OpenAI)

	profileService := services.NewProfileService(profileRepo, log, cfg.Auth.BCryptCost)
	billingService := services.NewBillingService(profileRepo, paymentProvider, log)
	guidanceService := services.NewGuidanceService(profileRepo, chatProvider, log, cfg.OpenAI.GuidanceTimeout)
	chatService := services.NewChatService(profileRepo, chatProvider, log, cfg.OpenAI.GuidanceTimeout)

	h := &router.Handlers{
		Health:     handlers.NewHealthHandler(store, version),
		Auth:       handlers.NewAuthHandler(profileService, cfg, log, val),
		OAuth:      handlers.NewOAuthHandler(profileService, cfg, log),
		Profile:    handlers.NewProfileHandler(profileService, log, val),
		Assessment: handlers.NewAssessmentHandler(profileService, guidanceService, cfg.OpenAI.AssessmentTimeout, log, val),
		Guidance:   handlers.NewGuidanceHandler(guidanceService, log),
		Chat:       handlers.NewChatHandler(chatService, log, val),
		Billing:    handlers.NewBillingHandler(billingService, cfg, log, val),
		Webhook:    handlers.NewWebhookHandler(billingService, cfg.Stripe.WebhookSecret, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-quit:
		log.Infof("Received signal %s, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
		os.Exit(1)
	}

	log.Info("Server stopped")
}
