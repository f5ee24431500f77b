package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across the domain.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// ErrPublicEventLimitExceeded is returned when a creator who already owns a
// public event tries to create another one or raise a second event to public.
var ErrPublicEventLimitExceeded = errors.New("public events limit exceeded")

// EventState is the visibility state of an event.
type EventState string

const (
	EventStateDraft   EventState = "draft"
	EventStatePublic  EventState = "public"
	EventStatePrivate EventState = "private"
)

// ValidEventState reports whether s is one of draft, public, private.
func ValidEventState(s EventState) bool {
	switch s {
	case EventStateDraft, EventStatePublic, EventStatePrivate:
		return true
	}
	return false
}

// Location describes where an event takes place: a place name and/or a
// coordinate pair. Lat and Lon must be set together.
type Location struct {
	Name *string  `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// Validate enforces the location co-presence rule: at least one of name,
// lat, lon must be set, and lat/lon must be set together and in range.
func (l Location) Validate() error {
	if l.Name == nil && l.Lat == nil && l.Lon == nil {
		return ErrInvalidInput
	}
	if (l.Lat == nil) != (l.Lon == nil) {
		return ErrInvalidInput
	}
	if l.Lat != nil && (*l.Lat < -90 || *l.Lat > 90) {
		return ErrInvalidInput
	}
	if l.Lon != nil && (*l.Lon < -180 || *l.Lon > 180) {
		return ErrInvalidInput
	}
	return nil
}

// Event represents a planned happening created by a user.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	CreatorID   string     `json:"creator_id"`
	Headline    string     `json:"headline"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	Location    Location   `json:"location"`
	State       EventState `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(creatorID, headline string, description *string, startDate time.Time, location Location, state EventState, createdAt, updatedAt time.Time) *Event {
	return &Event{
		CreatorID:   creatorID,
		Headline:    headline,
		Description: description,
		StartDate:   startDate,
		Location:    location,
		State:       state,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventFields carries the caller-settable fields of an event. Updates replace
// all of these fields at once rather than merging.
type EventFields struct {
	Headline    string
	Description *string
	StartDate   time.Time
	Location    Location
	State       EventState
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update replaces the mutable fields of the event in one write.
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error
	CountPublicByCreator(ctx context.Context, creatorID string) (int, error)
	ListPublic(ctx context.Context) ([]*Event, error)
	// ListVisibleTo returns public and private events plus every event owned
	// by viewerID, without duplicates.
	ListVisibleTo(ctx context.Context, viewerID string) ([]*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	// ListByStartDateRange returns events with start_date in [start, end).
	ListByStartDateRange(ctx context.Context, start, end time.Time) ([]*Event, error)
}

// EventService defines the business logic for the event lifecycle.
type EventService interface {
	Create(ctx context.Context, creatorID string, fields EventFields) (*Event, error)
	GetByID(ctx context.Context, eventID string) (*Event, error)
	Update(ctx context.Context, actorID, eventID string, fields EventFields) (*Event, error)
	Delete(ctx context.Context, actorID, eventID string) error
	// ListVisible returns public events when viewerID is empty, otherwise the
	// union of public, private, and viewer-owned events.
	ListVisible(ctx context.Context, viewerID string) ([]*Event, error)
}
