// Package history provides read access to collection run records and
// stored observations.
package history

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/run"
	"github.com/metarwatch/metarwatch/internal/station"
)

// Limit bounds. DefaultLimit covers a week of hourly collections.
const (
	DefaultLimit = 168
	MinLimit     = 1
	MaxLimit     = 500
)

// Service serves history queries. It never writes.
type Service struct {
	runs           run.Repository
	metars         metar.Repository
	defaultStation string
	logger         zerolog.Logger
}

// Config holds configuration for the history service.
type Config struct {
	Runs   run.Repository
	Metars metar.Repository

	// DefaultStation answers observation queries that name no station.
	DefaultStation string

	Logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(cfg Config) *Service {
	return &Service{
		runs:           cfg.Runs,
		metars:         cfg.Metars,
		defaultStation: station.NormalizeID(cfg.DefaultStation),
		logger:         cfg.Logger,
	}
}

// ClampLimit folds a requested limit into the allowed range. Zero or
// negative requests get the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit < MinLimit:
		return MinLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// RecentRuns returns the newest limit run records, oldest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]*run.Run, error) {
	limit = ClampLimit(limit)

	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ResolveStation normalizes a requested station id, applying the default
// for empty input.
func (s *Service) ResolveStation(stationID string) (string, error) {
	id := station.NormalizeID(stationID)
	if id == "" {
		id = s.defaultStation
	}
	if id == "" {
		return "", ErrNoStation
	}
	return id, nil
}

// StationObservations returns the newest limit observations for a station,
// oldest first. An empty station id falls back to the configured default.
func (s *Service) StationObservations(ctx context.Context, stationID string, limit int) ([]*metar.Observation, error) {
	id, err := s.ResolveStation(stationID)
	if err != nil {
		return nil, err
	}
	limit = ClampLimit(limit)

	observations, err := s.metars.ListByStation(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list observations for %s: %w", id, err)
	}
	return observations, nil
}
