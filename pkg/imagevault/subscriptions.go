package imagevault

import (
	"context"
	"fmt"
)

// SubscriptionManager manages email subscriptions to the notification topic.
// It is a stateless pass-through over the Notifier.
type SubscriptionManager struct {
	notifier Notifier
}

// NewSubscriptionManager creates a subscription manager over the given
// notifier
func NewSubscriptionManager(notifier Notifier) *SubscriptionManager {
	return &SubscriptionManager{notifier: notifier}
}

// SubscribeEmail binds an email address to the notification topic.
func (m *SubscriptionManager) SubscribeEmail(ctx context.Context, address string) error {
	if address == "" {
		return &SubscriptionError{Endpoint: address, Op: "subscribe",
			Err: fmt.Errorf("email address is required")}
	}
	if err := m.notifier.Subscribe(ctx, address); err != nil {
		return &SubscriptionError{Endpoint: address, Op: "subscribe", Err: err}
	}
	return nil
}

// UnsubscribeEmail removes an email address from the notification topic.
// Addresses that were never subscribed are a no-op.
func (m *SubscriptionManager) UnsubscribeEmail(ctx context.Context, address string) error {
	if address == "" {
		return &SubscriptionError{Endpoint: address, Op: "unsubscribe",
			Err: fmt.Errorf("email address is required")}
	}
	if err := m.notifier.Unsubscribe(ctx, address); err != nil {
		return &SubscriptionError{Endpoint: address, Op: "unsubscribe", Err: err}
	}
	return nil
}

// ListSubscriptions returns the current topic subscriptions.
func (m *SubscriptionManager) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	subs, err := m.notifier.ListSubscriptions(ctx)
	if err != nil {
		return nil, &SubscriptionError{Op: "list", Err: err}
	}
	return subs, nil
}
