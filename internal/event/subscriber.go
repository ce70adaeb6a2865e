package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/alert"
)

// Decider is the decision engine seen by the subscriber.
type Decider interface {
	DecideAndRoute(ctx context.Context, event *alert.Event) (*alert.Outcome, error)
}

// Subscriber consumes alert-candidate events and feeds them through the
// decision engine. Delivery is at least once; the engine is safe to replay
// a single event against.
type Subscriber struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	decider          Decider
	logger           zerolog.Logger
}

// SubscriberConfig holds configuration for the event subscriber.
type SubscriberConfig struct {
	ProjectID        string
	SubscriptionName string
	Decider          Decider
	Logger           zerolog.Logger
}

// NewSubscriber creates an event subscriber.
func NewSubscriber(ctx context.Context, cfg SubscriberConfig) (*Subscriber, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &Subscriber{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		decider:          cfg.Decider,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing events until ctx is canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	s.logger.Info().
		Str("subscription", s.subscriptionName).
		Msg("starting event subscriber")

	return s.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger := s.logger.With().
			Str("message_id", msg.ID).
			Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
			Logger()

		if s.Process(ctx, msg.Data, logger) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
}

// Close closes the Pub/Sub client.
func (s *Subscriber) Close() error {
	return s.client.Close()
}

// Process decodes and routes one event payload, reporting whether the
// message should be acknowledged. Undecodable payloads are acknowledged:
// redelivery cannot fix them and they would otherwise poison the
// subscription. Engine decisions, including skips, are acknowledged; only
// infrastructure failures request redelivery.
func (s *Subscriber) Process(ctx context.Context, data []byte, logger zerolog.Logger) bool {
	start := time.Now()

	var evt alert.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		logger.Error().Err(err).Msg("dropping undecodable event")
		return true
	}

	outcome, err := s.decider.DecideAndRoute(ctx, &evt)
	if err != nil {
		logger.Error().Err(err).
			Str("station_id", evt.StationID).
			Msg("event routing failed")
		return false
	}

	logger.Info().
		Str("station_id", outcome.StationID).
		Bool("notified", outcome.Notified).
		Str("skipped", outcome.Skipped).
		Dur("duration", time.Since(start)).
		Msg("event routed")
	return true
}
