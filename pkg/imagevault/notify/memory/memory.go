package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// Notifier is an in-memory implementation of the imagevault.Notifier
// interface. It models at-least-once queue semantics with a visibility
// timeout of zero: received messages stay in the queue until acknowledged,
// so an unacknowledged message is redelivered by the next receive.
type Notifier struct {
	mu        sync.Mutex
	seq       int
	queue     []imagevault.QueueMessage
	published []string
	subs      []imagevault.Subscription
}

// New creates a new in-memory notifier
func New() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Enqueue(ctx context.Context, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	n.queue = append(n.queue, imagevault.QueueMessage{
		Body:          body,
		ReceiptHandle: fmt.Sprintf("receipt-%d", n.seq),
	})
	return nil
}

func (n *Notifier) ReceiveBatch(ctx context.Context, maxMessages int, wait time.Duration) ([]imagevault.QueueMessage, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	count := len(n.queue)
	if count > maxMessages {
		count = maxMessages
	}

	messages := make([]imagevault.QueueMessage, count)
	copy(messages, n.queue[:count])
	return messages, nil
}

func (n *Notifier) Acknowledge(ctx context.Context, receiptHandle string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, msg := range n.queue {
		if msg.ReceiptHandle == receiptHandle {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("unknown receipt handle %s", receiptHandle)
}

func (n *Notifier) Publish(ctx context.Context, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.published = append(n.published, body)
	return nil
}

func (n *Notifier) Subscribe(ctx context.Context, endpoint string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		if sub.Endpoint == endpoint {
			return nil
		}
	}

	n.seq++
	n.subs = append(n.subs, imagevault.Subscription{
		Endpoint: endpoint,
		ARN:      fmt.Sprintf("subscription-%d", n.seq),
	})
	return nil
}

func (n *Notifier) Unsubscribe(ctx context.Context, endpoint string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub.Endpoint == endpoint {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return nil
		}
	}

	// Never-subscribed endpoints are a no-op
	return nil
}

func (n *Notifier) ListSubscriptions(ctx context.Context) ([]imagevault.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	subs := make([]imagevault.Subscription, len(n.subs))
	copy(subs, n.subs)
	return subs, nil
}

// Published returns the message bodies published to the topic so far.
func (n *Notifier) Published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	published := make([]string, len(n.published))
	copy(published, n.published)
	return published
}

// QueueLen returns the number of messages still held by the queue.
func (n *Notifier) QueueLen() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.queue)
}
