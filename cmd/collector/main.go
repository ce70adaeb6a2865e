// Package main provides the entrypoint for the metarwatch collector.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/api/middleware"
	"github.com/metarwatch/metarwatch/internal/collector"
	"github.com/metarwatch/metarwatch/internal/database"
	"github.com/metarwatch/metarwatch/internal/event"
	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/provider/resilience"
	"github.com/metarwatch/metarwatch/internal/run"
	"github.com/metarwatch/metarwatch/internal/station"
	"github.com/metarwatch/metarwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "metarwatch-collector"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting metarwatch collector")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	interval := durationFromEnv(log, "COLLECT_INTERVAL", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry
	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        os.Getenv("OTEL_ENABLED") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown error")
		}
	}()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Connect to Pub/Sub for alert-candidate events
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}
	eventTopic := os.Getenv("EVENT_TOPIC")
	if eventTopic == "" {
		eventTopic = "metar-alert-candidates"
	}
	psClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub client")
	}
	defer psClient.Close()

	publisher := event.NewPubSubPublisher(psClient, eventTopic)
	defer publisher.Close()

	feedClient := resilience.NewClient(resilience.ClientConfig{
		Name:            metar.ProviderName,
		Timeout:         20 * time.Second,
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Registry:        resilience.GlobalRegistry,
	})

	providerMetrics, err := middleware.NewProviderMetrics(metar.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create provider metrics")
	}
	fetcher := &instrumentedFetcher{
		inner:   metar.NewClient(metar.ClientConfig{HTTPClient: feedClient}),
		metrics: providerMetrics,
	}

	retention := retentionFromEnv(log, "RETENTION_DAYS", collector.DefaultRetention)

	job := collector.NewJob(collector.JobConfig{
		Config: collector.Config{
			AlertOnEmpty:       boolFromEnv(log, "ALERT_ON_EMPTY", true),
			StaleAfter:         durationFromEnv(log, "STALE_AFTER", 0),
			MetarRetention:     retention,
			RunRetention:       retention,
			FallbackStationIDs: splitStationIDs(os.Getenv("STATION_IDS"), "KJWY"),
		},
		Stations:  station.NewPostgresRepository(pool),
		Fetcher:   fetcher,
		Metars:    metar.NewPostgresRepository(pool),
		Runs:      run.NewPostgresRepository(pool),
		Publisher: publisher,
		Logger:    log,
	})

	// Health endpoint for the container runtime
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status := "healthy"
		var fetches, failures uint64
		if health := resilience.GlobalRegistry.GetHealth(metar.ProviderName); health != nil {
			if health.IsUnhealthy() {
				status = "degraded"
			}
			fetches = health.Successes + health.Failures
			failures = health.Failures
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":%q,"version":%q,"fetches":%d,"failures":%d}`,
			status, Version, fetches, failures)
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

	// Collection loop: one cycle immediately, then on the interval.
	go func() {
		runOnce := func() {
			cycleCtx, cycleCancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cycleCancel()

			result, err := job.Collect(cycleCtx)
			if err != nil {
				log.Error().Err(err).Msg("collection cycle failed")
				return
			}
			log.Info().
				Str("status", string(result.Status)).
				Int("observations", result.ObservationsStored).
				Int("events", result.EventsPublished).
				Msg("collection cycle finished")
		}

		runOnce()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down collector")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}
}

// durationFromEnv parses an env var like "1h" or "90s". Absence, parse
// failure, and non-positive values all yield the fallback.
func durationFromEnv(log zerolog.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Bare numbers are treated as minutes.
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Minute
	}
	log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
	return fallback
}

// boolFromEnv parses a boolean env var, falling back on absence or junk.
func boolFromEnv(log zerolog.Logger, key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid boolean, using default")
		return fallback
	}
	return v
}

// retentionFromEnv parses a whole number of days, clamped to at least one.
func retentionFromEnv(log zerolog.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("unparseable day count, using default")
		return fallback
	}
	if days < 1 {
		days = 1
	}
	return time.Duration(days) * 24 * time.Hour
}

// instrumentedFetcher records request duration and outcome for every feed
// fetch alongside the circuit breaker state tracked by the registry.
type instrumentedFetcher struct {
	inner   *metar.Client
	metrics *middleware.ProviderMetrics
}

func (f *instrumentedFetcher) BuildURL(stationIDs []string) string {
	return f.inner.BuildURL(stationIDs)
}

func (f *instrumentedFetcher) Fetch(ctx context.Context, stationIDs []string) ([]*metar.Observation, error) {
	start := time.Now()
	observations, err := f.inner.Fetch(ctx, stationIDs)
	f.metrics.RecordRequest(metar.ProviderName, "fetch-metars", time.Since(start), err)
	if err != nil {
		resilience.GlobalRegistry.RecordFailure(metar.ProviderName, err)
		return nil, err
	}
	resilience.GlobalRegistry.RecordSuccess(metar.ProviderName)
	return observations, nil
}

// splitStationIDs parses a comma separated station list.
func splitStationIDs(raw, fallback string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
