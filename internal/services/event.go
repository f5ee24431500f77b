package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	subscriptions  domain.SubscriptionService
	contextTimeout time.Duration
}

// NewEventService creates an EventService. The subscription service is used
// only for the cascade on delete.
func NewEventService(eventRepo domain.EventRepository, subscriptions domain.SubscriptionService, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		subscriptions:  subscriptions,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, creatorID string, fields domain.EventFields) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return nil, fmt.Errorf("event creator is required")
	}
	if err := validateEventFields(fields); err != nil {
		return nil, err
	}

	if fields.State == domain.EventStatePublic {
		if err := s.checkPublicLimit(ctx, creatorID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	event := domain.NewEvent(creatorID, fields.Headline, fields.Description, fields.StartDate, fields.Location, fields.State, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, actorID, eventID string, fields domain.EventFields) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateEventFields(fields); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != actorID {
		return nil, domain.ErrForbidden
	}

	// Raising an event into public re-runs the same limit check as create.
	// A violation aborts before anything is written.
	if event.State != domain.EventStatePublic && fields.State == domain.EventStatePublic {
		if err := s.checkPublicLimit(ctx, actorID); err != nil {
			return nil, err
		}
	}

	event.Headline = fields.Headline
	event.Description = fields.Description
	event.StartDate = fields.StartDate
	event.Location = fields.Location
	event.State = fields.State
	event.UpdatedAt = time.Now()

	updated, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, actorID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatorID != actorID {
		return domain.ErrForbidden
	}

	// Dependents first. On partial failure the orphan subscriptions are
	// harmless: readers always re-check event existence.
	if err := s.subscriptions.DeleteAllForEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete subscriptions: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ListVisible(ctx context.Context, viewerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		events []*domain.Event
		err    error
	)
	if viewerID == "" {
		events, err = s.eventRepo.ListPublic(ctx)
	} else {
		events, err = s.eventRepo.ListVisibleTo(ctx, viewerID)
	}
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) checkPublicLimit(ctx context.Context, creatorID string) error {
	n, err := s.eventRepo.CountPublicByCreator(ctx, creatorID)
	if err != nil {
		return fmt.Errorf("count public events: %w", err)
	}
	if n > 0 {
		return domain.ErrPublicEventLimitExceeded
	}
	return nil
}

func validateEventFields(fields domain.EventFields) error {
	if fields.Headline == "" {
		return domain.ErrInvalidInput
	}
	if fields.StartDate.IsZero() {
		return domain.ErrInvalidInput
	}
	if !domain.ValidEventState(fields.State) {
		return domain.ErrInvalidInput
	}
	return fields.Location.Validate()
}
