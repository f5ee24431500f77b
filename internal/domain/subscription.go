package domain

import (
	"context"
	"errors"
	"time"
)

// MaxSubscriptions is the system-wide cap on active subscriptions per user.
const MaxSubscriptions = 3

// Sentinel errors for subscription operations.
var (
	// ErrSelfSubscription is returned when a user tries to subscribe to an event they own.
	ErrSelfSubscription = errors.New("you can't subscribe to your own events")
	// ErrAlreadySubscribed is returned on a duplicate subscription attempt;
	// the Subscribe call also returns the preexisting record.
	ErrAlreadySubscribed = errors.New("you already have subscribed to this event")
	// ErrSubscriptionLimitExceeded is returned when the subscriber already holds MaxSubscriptions.
	ErrSubscriptionLimitExceeded = errors.New("subscribed events limit exceeded")
)

// Subscription is a user's opt-in to receive reminders for an event they do
// not own. The event reference is weak: readers re-check event existence.
// swagger:model Subscription
type Subscription struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	SubscriberID     string    `json:"subscriber_id"`
	SubscriptionDate time.Time `json:"subscription_date"`
	Comment          *string   `json:"comment,omitempty"`
}

// NewSubscription returns a new Subscription. ID is typically set by the repository on create.
func NewSubscription(eventID, subscriberID string, subscriptionDate time.Time, comment *string) *Subscription {
	return &Subscription{
		EventID:          eventID,
		SubscriberID:     subscriberID,
		SubscriptionDate: subscriptionDate,
		Comment:          comment,
	}
}

// SubscriptionRepository defines the interface for subscription storage
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	ListBySubscriberID(ctx context.Context, subscriberID string) ([]*Subscription, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Subscription, error)
	GetByEventAndSubscriber(ctx context.Context, eventID, subscriberID string) (*Subscription, error)
	DeleteAllForEvent(ctx context.Context, eventID string) error
}

// SubscriptionService defines the business logic for subscriptions.
type SubscriptionService interface {
	// Subscribe creates a subscription for subscriberID to eventID. On
	// ErrAlreadySubscribed the returned Subscription is the existing record;
	// on any other error it is nil.
	Subscribe(ctx context.Context, subscriberID, eventID string, comment *string) (*Subscription, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Subscription, error)
	// DeleteAllForEvent removes every subscription referencing eventID. It is
	// the cascade primitive used by the event delete path.
	DeleteAllForEvent(ctx context.Context, eventID string) error
}
