package alert

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
)

// PubSubNotifier publishes notifications to per-owner Pub/Sub topics.
//
// The notification topic is the owner's channel reference from config;
// publishers are cached per topic because each maintains its own batching
// goroutines.
type PubSubNotifier struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewPubSubNotifier creates a notifier backed by the given Pub/Sub client.
func NewPubSubNotifier(client *pubsub.Client) *PubSubNotifier {
	return &PubSubNotifier{
		client:     client,
		publishers: make(map[string]*pubsub.Publisher),
	}
}

// Publish sends one notification to the owner's topic. The call blocks
// until the server acknowledges the message so a failure is surfaced to the
// decision engine before any cooldown marker is written.
func (n *PubSubNotifier) Publish(ctx context.Context, notification *Notification) error {
	publisher := n.publisher(notification.Topic)

	attrs := make(map[string]string, len(notification.Attributes)+1)
	for k, v := range notification.Attributes {
		attrs[k] = v
	}
	attrs["subject"] = notification.Subject

	result := publisher.Publish(ctx, &pubsub.Message{
		Data:       []byte(notification.Body),
		Attributes: attrs,
	})

	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish to owner topic %s: %w", notification.Topic, err)
	}
	return nil
}

func (n *PubSubNotifier) publisher(topic string) *pubsub.Publisher {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.publishers[topic]
	if !ok {
		p = n.client.Publisher(topic)
		n.publishers[topic] = p
	}
	return p
}

// Close stops all cached publishers, flushing pending messages.
func (n *PubSubNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, p := range n.publishers {
		p.Stop()
	}
	n.publishers = make(map[string]*pubsub.Publisher)
}

// Ensure PubSubNotifier implements Notifier interface.
var _ Notifier = (*PubSubNotifier)(nil)
