package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eventplanner/internal/domain"
)

type subscriptionService struct {
	subscriptionRepo domain.SubscriptionRepository
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
	contextTimeout   time.Duration
}

// NewSubscriptionService creates a SubscriptionService. emailService may be
// nil, in which case no confirmation emails are sent.
func NewSubscriptionService(
	subscriptionRepo domain.SubscriptionRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	timeout time.Duration,
) domain.SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		contextTimeout:   timeout,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, eventID string, comment *string) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if event.CreatorID == subscriberID {
		return nil, domain.ErrSelfSubscription
	}

	subs, err := s.subscriptionRepo.ListBySubscriberID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	for _, sub := range subs {
		if sub.EventID == eventID {
			return sub, domain.ErrAlreadySubscribed
		}
	}
	if len(subs) >= domain.MaxSubscriptions {
		return nil, domain.ErrSubscriptionLimitExceeded
	}

	sub := domain.NewSubscription(eventID, subscriberID, time.Now(), comment)
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	s.sendConfirmation(ctx, subscriberID, event)
	return sub, nil
}

// sendConfirmation emails the subscriber that the subscription was created.
// Best-effort: any failure is logged and swallowed.
func (s *subscriptionService) sendConfirmation(ctx context.Context, subscriberID string, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, subscriberID)
	if err != nil {
		log.Printf("[SUBSCRIPTION] could not load subscriber %s for confirmation email: %v", subscriberID, err)
		return
	}
	data := &domain.SubscriptionConfirmedEmailData{
		Email:         user.Email,
		EventHeadline: event.Headline,
		EventStart:    event.StartDate.Format(time.RFC1123),
	}
	if err := s.emailService.SendSubscriptionConfirmed(ctx, data); err != nil {
		log.Printf("[SUBSCRIPTION] confirmation email to %s failed: %v", user.Email, err)
	}
}

func (s *subscriptionService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	subs, err := s.subscriptionRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	if subs == nil {
		subs = []*domain.Subscription{}
	}
	return subs, nil
}

func (s *subscriptionService) DeleteAllForEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.subscriptionRepo.DeleteAllForEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete subscriptions for event: %w", err)
	}
	return nil
}
