// Package main provides the entrypoint for the metarwatch alert router.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/alert"
	"github.com/metarwatch/metarwatch/internal/database"
	"github.com/metarwatch/metarwatch/internal/event"
	"github.com/metarwatch/metarwatch/internal/owner"
	"github.com/metarwatch/metarwatch/internal/station"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "metarwatch-router"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting metarwatch alert router")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Connect to Pub/Sub for notifications
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}
	subscription := os.Getenv("EVENT_SUBSCRIPTION")
	if subscription == "" {
		subscription = "metar-alert-candidates-router"
	}
	psClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub client")
	}
	defer psClient.Close()

	notifier := alert.NewPubSubNotifier(psClient)
	defer notifier.Close()

	engine := alert.NewEngine(alert.EngineConfig{
		Stations:  station.NewPostgresRepository(pool),
		Owners:    owner.NewPostgresRepository(pool),
		Cooldowns: alert.NewPostgresCooldownStore(pool),
		Notifier:  notifier,
		Logger:    log,
	})

	subscriber, err := event.NewSubscriber(ctx, event.SubscriberConfig{
		ProjectID:        projectID,
		SubscriptionName: subscription,
		Decider:          engine,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event subscriber")
	}
	defer subscriber.Close()

	// Health endpoint for the container runtime
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Receive blocks until the context is canceled.
	go func() {
		if err := subscriber.Start(ctx); err != nil {
			log.Error().Err(err).Msg("event subscriber stopped")
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down alert router")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}
}
