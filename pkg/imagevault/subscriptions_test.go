package imagevault_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagevault/imagevault/pkg/imagevault"
	notifymemory "github.com/imagevault/imagevault/pkg/imagevault/notify/memory"
)

// brokenNotifier fails every operation.
type brokenNotifier struct{}

func (brokenNotifier) Enqueue(ctx context.Context, body string) error { return errors.New("down") }
func (brokenNotifier) ReceiveBatch(ctx context.Context, maxMessages int, wait time.Duration) ([]imagevault.QueueMessage, error) {
	return nil, errors.New("down")
}
func (brokenNotifier) Acknowledge(ctx context.Context, receiptHandle string) error {
	return errors.New("down")
}
func (brokenNotifier) Publish(ctx context.Context, body string) error { return errors.New("down") }
func (brokenNotifier) Subscribe(ctx context.Context, endpoint string) error {
	return errors.New("down")
}
func (brokenNotifier) Unsubscribe(ctx context.Context, endpoint string) error {
	return errors.New("down")
}
func (brokenNotifier) ListSubscriptions(ctx context.Context) ([]imagevault.Subscription, error) {
	return nil, errors.New("down")
}

func TestSubscriptionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("subscribe then unsubscribe leaves no subscription", func(t *testing.T) {
		notifier := notifymemory.New()
		manager := imagevault.NewSubscriptionManager(notifier)

		require.NoError(t, manager.SubscribeEmail(ctx, "user@example.com"))

		subs, err := manager.ListSubscriptions(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "user@example.com", subs[0].Endpoint)

		require.NoError(t, manager.UnsubscribeEmail(ctx, "user@example.com"))

		subs, err = manager.ListSubscriptions(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("unsubscribe of unknown address is a no-op", func(t *testing.T) {
		notifier := notifymemory.New()
		manager := imagevault.NewSubscriptionManager(notifier)

		require.NoError(t, manager.SubscribeEmail(ctx, "user@example.com"))
		require.NoError(t, manager.UnsubscribeEmail(ctx, "stranger@example.com"))

		subs, err := manager.ListSubscriptions(ctx)
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("empty address is rejected", func(t *testing.T) {
		manager := imagevault.NewSubscriptionManager(notifymemory.New())

		err := manager.SubscribeEmail(ctx, "")
		assert.ErrorIs(t, err, imagevault.ErrSubscriptionFailed)

		err = manager.UnsubscribeEmail(ctx, "")
		assert.ErrorIs(t, err, imagevault.ErrSubscriptionFailed)
	})

	t.Run("gateway failures surface as subscription failures", func(t *testing.T) {
		manager := imagevault.NewSubscriptionManager(brokenNotifier{})

		err := manager.SubscribeEmail(ctx, "user@example.com")
		assert.ErrorIs(t, err, imagevault.ErrSubscriptionFailed)

		err = manager.UnsubscribeEmail(ctx, "user@example.com")
		assert.ErrorIs(t, err, imagevault.ErrSubscriptionFailed)

		_, err = manager.ListSubscriptions(ctx)
		assert.ErrorIs(t, err, imagevault.ErrSubscriptionFailed)
	})
}
