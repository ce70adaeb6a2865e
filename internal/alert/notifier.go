package alert

import (
	"context"
	"sync"
)

// Notification is one outbound message to an owner's channel.
type Notification struct {
	// Topic is the owner's notification channel reference.
	Topic string

	// Subject is the short headline, at most MaxSubjectLength characters.
	Subject string

	// Body is the multi-line message text.
	Body string

	// Attributes carry station_id, owner_id and status for downstream
	// filtering.
	Attributes map[string]string
}

// Notifier dispatches notifications to owner channels.
type Notifier interface {
	Publish(ctx context.Context, n *Notification) error
}

// RecordingNotifier is an in-memory Notifier for tests. It records every
// published notification and can be told to fail.
type RecordingNotifier struct {
	mu        sync.Mutex
	published []*Notification

	// Err, when set, is returned from Publish without recording.
	Err error
}

// NewRecordingNotifier creates a new recording notifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Publish records the notification, or fails with Err.
func (n *RecordingNotifier) Publish(_ context.Context, notification *Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	cpy := *notification
	n.published = append(n.published, &cpy)
	return nil
}

// Published returns the notifications recorded so far.
func (n *RecordingNotifier) Published() []*Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]*Notification, len(n.published))
	copy(out, n.published)
	return out
}

// Ensure RecordingNotifier implements Notifier interface.
var _ Notifier = (*RecordingNotifier)(nil)
