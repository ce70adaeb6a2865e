package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/history"
	"github.com/metarwatch/metarwatch/internal/metar"
	"github.com/metarwatch/metarwatch/internal/run"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 168},
		{-5, 168},
		{1, 1},
		{168, 168},
		{500, 500},
		{501, 500},
		{10000, 500},
	}
	for _, tt := range tests {
		if got := history.ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRecentRuns(t *testing.T) {
	runs := run.NewInMemoryRepository()
	base := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := runs.Append(context.Background(), &run.Run{
			CheckedAt:  base.Add(time.Duration(i) * time.Hour),
			Status:     run.StatusOK,
			StationIDs: []string{"KJWY"},
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	svc := history.NewService(history.Config{
		Runs:   runs,
		Metars: metar.NewInMemoryRepository(),
		Logger: zerolog.Nop(),
	})

	got, err := svc.RecentRuns(context.Background(), 3)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d runs, want 3", len(got))
	}
	// Newest three, ordered oldest first.
	for i, r := range got {
		want := base.Add(time.Duration(i+2) * time.Hour)
		if !r.CheckedAt.Equal(want) {
			t.Errorf("run[%d].CheckedAt = %v, want %v", i, r.CheckedAt, want)
		}
	}
}

func TestStationObservations(t *testing.T) {
	metars := metar.NewInMemoryRepository()
	base := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	var observations []*metar.Observation
	for i := 0; i < 3; i++ {
		observations = append(observations, &metar.Observation{
			StationID:       "KJWY",
			ObservationTime: base.Add(time.Duration(i) * time.Hour),
			RawText:         fmt.Sprintf("KJWY %d", i),
		})
	}
	if err := metars.PutBatch(context.Background(), observations, time.Hour); err != nil {
		t.Fatalf("put batch: %v", err)
	}

	svc := history.NewService(history.Config{
		Runs:           run.NewInMemoryRepository(),
		Metars:         metars,
		DefaultStation: "kjwy",
		Logger:         zerolog.Nop(),
	})

	t.Run("explicit station", func(t *testing.T) {
		got, err := svc.StationObservations(context.Background(), " kjwy ", 0)
		if err != nil {
			t.Fatalf("station observations: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d observations, want 3", len(got))
		}
		if !got[0].ObservationTime.Equal(base) {
			t.Errorf("first observation = %v, want oldest %v", got[0].ObservationTime, base)
		}
	})

	t.Run("default station", func(t *testing.T) {
		got, err := svc.StationObservations(context.Background(), "", 0)
		if err != nil {
			t.Fatalf("station observations: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d observations via default station, want 3", len(got))
		}
	})

	t.Run("unknown station", func(t *testing.T) {
		got, err := svc.StationObservations(context.Background(), "KSFO", 0)
		if err != nil {
			t.Fatalf("station observations: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d observations for unknown station, want none", len(got))
		}
	})
}

func TestStationObservations_NoStation(t *testing.T) {
	svc := history.NewService(history.Config{
		Runs:   run.NewInMemoryRepository(),
		Metars: metar.NewInMemoryRepository(),
		Logger: zerolog.Nop(),
	})

	if _, err := svc.StationObservations(context.Background(), "", 10); !errors.Is(err, history.ErrNoStation) {
		t.Fatalf("err = %v, want ErrNoStation", err)
	}
}
