// Package event carries alert-candidate events between the collector and
// the decision engine over Pub/Sub.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"

	"github.com/metarwatch/metarwatch/internal/alert"
)

// PubSubPublisher publishes alert-candidate events to the event topic,
// one message per event.
type PubSubPublisher struct {
	client    *pubsub.Client
	topicName string

	once      sync.Once
	publisher *pubsub.Publisher
}

// NewPubSubPublisher creates a publisher for the given event topic.
func NewPubSubPublisher(client *pubsub.Client, topicName string) *PubSubPublisher {
	return &PubSubPublisher{client: client, topicName: topicName}
}

// PublishAlertCandidates publishes every event and waits for server
// acknowledgement of each. Events are independent messages so a redelivery
// replays a single station's candidate, not the whole batch.
func (p *PubSubPublisher) PublishAlertCandidates(ctx context.Context, events []*alert.Event) error {
	p.once.Do(func() {
		p.publisher = p.client.Publisher(p.topicName)
	})

	results := make([]*pubsub.PublishResult, 0, len(events))
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode alert candidate for %s: %w", e.StationID, err)
		}
		results = append(results, p.publisher.Publish(ctx, &pubsub.Message{
			Data: data,
			Attributes: map[string]string{
				"station_id": e.StationID,
				"status":     e.Status,
			},
		}))
	}

	for i, result := range results {
		if _, err := result.Get(ctx); err != nil {
			return fmt.Errorf("publish alert candidate for %s: %w", events[i].StationID, err)
		}
	}
	return nil
}

// Close stops the underlying publisher and flushes pending messages.
func (p *PubSubPublisher) Close() {
	if p.publisher != nil {
		p.publisher.Stop()
	}
}
