package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/domain"
)

type reminderService struct {
	eventRepo        domain.EventRepository
	subscriptionRepo domain.SubscriptionRepository
	push             domain.PushSender
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewReminderService creates a ReminderService dispatching over the given push sender.
func NewReminderService(
	eventRepo domain.EventRepository,
	subscriptionRepo domain.SubscriptionRepository,
	push domain.PushSender,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ReminderService {
	return &reminderService{
		eventRepo:        eventRepo,
		subscriptionRepo: subscriptionRepo,
		push:             push,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

// MinuteWindow returns the minute-aligned half-open interval [start, end)
// containing now. A sweep run once per minute over these windows reaches
// every event exactly once.
func MinuteWindow(now time.Time) (start, end time.Time) {
	start = now.Truncate(time.Minute)
	return start, start.Add(time.Minute)
}

func (s *reminderService) RemindUpcoming(ctx context.Context) (*domain.SweepReport, error) {
	start, end := MinuteWindow(time.Now())
	return s.RemindWindow(ctx, start, end)
}

func (s *reminderService) RemindWindow(ctx context.Context, start, end time.Time) (*domain.SweepReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByStartDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list events in window: %w", err)
	}
	report, err := s.dispatch(ctx, events)
	if err != nil {
		return nil, err
	}
	s.logger.Info("reminder sweep finished",
		"window_start", start,
		"window_end", end,
		"events", report.Events,
		"delivered", report.Delivered,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (s *reminderService) RemindAll(ctx context.Context) (*domain.SweepReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	report, err := s.dispatch(ctx, events)
	if err != nil {
		return nil, err
	}
	s.logger.Info("broadcast sweep finished",
		"events", report.Events,
		"delivered", report.Delivered,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// dispatch resolves each event's subscriber set and attempts one push per
// subscriber. A store read failure aborts the sweep; a delivery failure to a
// single connection is counted and swallowed.
func (s *reminderService) dispatch(ctx context.Context, events []*domain.Event) (*domain.SweepReport, error) {
	report := &domain.SweepReport{Events: len(events)}
	for _, event := range events {
		subs, err := s.subscriptionRepo.ListByEventID(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("list subscribers for event %s: %w", event.ID, err)
		}
		reminder := domain.Reminder{
			EventID:   event.ID,
			Headline:  event.Headline,
			StartDate: event.StartDate,
		}
		for _, sub := range subs {
			delivered, err := s.push.Send(sub.SubscriberID, reminder)
			if err != nil {
				report.Failed++
				s.logger.Warn("reminder delivery failed",
					"event_id", event.ID,
					"subscriber_id", sub.SubscriberID,
					"err", err,
				)
				continue
			}
			if !delivered {
				report.Skipped++
				continue
			}
			report.Delivered++
		}
	}
	return report, nil
}
