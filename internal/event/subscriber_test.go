package event

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/alert"
)

type stubDecider struct {
	outcome *alert.Outcome
	err     error
	events  []*alert.Event
}

func (d *stubDecider) DecideAndRoute(ctx context.Context, event *alert.Event) (*alert.Outcome, error) {
	d.events = append(d.events, event)
	if d.err != nil {
		return nil, d.err
	}
	return d.outcome, nil
}

func TestProcess_AcksRoutedEvent(t *testing.T) {
	decider := &stubDecider{outcome: &alert.Outcome{OK: true, Notified: true, StationID: "KJWY"}}
	s := &Subscriber{decider: decider, logger: zerolog.Nop()}

	payload := []byte(`{"station_id":"KJWY","status":"error","checked_at_utc":"2026-02-20T10:00:00Z"}`)
	if !s.Process(context.Background(), payload, zerolog.Nop()) {
		t.Fatal("routed event must be acknowledged")
	}

	if len(decider.events) != 1 {
		t.Fatalf("decider saw %d events, want 1", len(decider.events))
	}
	if got := decider.events[0]; got.StationID != "KJWY" || got.Status != "error" {
		t.Errorf("decoded event = %s/%s, want KJWY/error", got.StationID, got.Status)
	}
}

func TestProcess_AcksSkippedEvent(t *testing.T) {
	decider := &stubDecider{outcome: &alert.Outcome{OK: true, StationID: "KJWY", Skipped: alert.SkipCooldown}}
	s := &Subscriber{decider: decider, logger: zerolog.Nop()}

	payload := []byte(`{"station_id":"KJWY","status":"error"}`)
	if !s.Process(context.Background(), payload, zerolog.Nop()) {
		t.Fatal("skips are final decisions and must be acknowledged")
	}
}

func TestProcess_AcksUndecodablePayload(t *testing.T) {
	decider := &stubDecider{}
	s := &Subscriber{decider: decider, logger: zerolog.Nop()}

	if !s.Process(context.Background(), []byte("not json"), zerolog.Nop()) {
		t.Fatal("undecodable payloads must be acknowledged, not redelivered")
	}
	if len(decider.events) != 0 {
		t.Errorf("decider saw %d events, want none", len(decider.events))
	}
}

func TestProcess_NacksOnEngineError(t *testing.T) {
	decider := &stubDecider{err: errors.New("cooldown store unavailable")}
	s := &Subscriber{decider: decider, logger: zerolog.Nop()}

	payload := []byte(`{"station_id":"KJWY","status":"error"}`)
	if s.Process(context.Background(), payload, zerolog.Nop()) {
		t.Fatal("infrastructure failures must request redelivery")
	}
}
