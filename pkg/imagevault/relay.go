package imagevault

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultRelayInterval  = 3 * time.Second
	defaultRelayBatchSize = 10
	defaultRelayWaitTime  = 10 * time.Second
)

// Relay continuously moves messages from the notification queue onto the
// fan-out topic. Each received message is published and then acknowledged;
// a message whose publish fails is left unacknowledged so the queue
// redelivers it. Delivery to topic subscribers is therefore at-least-once:
// a crash between publish and acknowledge causes duplicate publication on
// restart, which is accepted.
type Relay struct {
	notifier  Notifier
	interval  time.Duration
	batchSize int
	waitTime  time.Duration
	clock     Clock
	logger    *slog.Logger
}

// RelayOption represents a functional option for configuring the relay
type RelayOption func(*Relay)

// WithInterval sets the fixed delay between relay iterations
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		r.interval = d
	}
}

// WithBatchSize sets the maximum number of messages fetched per iteration
func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		r.batchSize = n
	}
}

// WithWaitTime sets the long-poll wait for each queue fetch
func WithWaitTime(d time.Duration) RelayOption {
	return func(r *Relay) {
		r.waitTime = d
	}
}

// WithClock overrides the timer source. Intended for tests.
func WithClock(clock Clock) RelayOption {
	return func(r *Relay) {
		r.clock = clock
	}
}

// WithRelayLogger sets the logger for the relay
func WithRelayLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) {
		r.logger = logger
	}
}

// NewRelay creates a relay over the given notifier
func NewRelay(notifier Notifier, options ...RelayOption) *Relay {
	r := &Relay{
		notifier:  notifier,
		interval:  defaultRelayInterval,
		batchSize: defaultRelayBatchSize,
		waitTime:  defaultRelayWaitTime,
		clock:     realClock{},
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Run executes relay iterations until ctx is cancelled, sleeping the
// configured interval between iterations. It returns ctx.Err() on
// cancellation and never stops on message-level failures: a single bad
// message must not block the flow of all others.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("notification relay running",
		"interval", r.interval, "batch_size", r.batchSize, "wait_time", r.waitTime)

	for {
		if err := ctx.Err(); err != nil {
			r.logger.Info("notification relay stopped")
			return err
		}

		r.RunOnce(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("notification relay stopped")
			return ctx.Err()
		case <-r.clock.After(r.interval):
		}
	}
}

// RunOnce performs a single iteration: fetch one batch and publish then
// acknowledge each message. It returns the number of messages acknowledged.
func (r *Relay) RunOnce(ctx context.Context) int {
	messages, err := r.notifier.ReceiveBatch(ctx, r.batchSize, r.waitTime)
	if err != nil {
		r.logger.Error("failed to receive queue messages", "error", err)
		return 0
	}

	acked := 0
	for _, msg := range messages {
		if err := r.notifier.Publish(ctx, msg.Body); err != nil {
			// Left unacknowledged: the queue redelivers it after the
			// visibility timeout.
			r.logger.Error("failed to publish queue message to topic", "error", err)
			continue
		}
		if err := r.notifier.Acknowledge(ctx, msg.ReceiptHandle); err != nil {
			r.logger.Error("failed to acknowledge queue message", "error", err)
			continue
		}
		acked++
	}

	return acked
}
