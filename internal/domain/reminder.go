package domain

import (
	"context"
	"time"
)

// Reminder is the payload pushed to a subscriber shortly before an event starts.
// swagger:model Reminder
type Reminder struct {
	EventID   string    `json:"eventId"`
	Headline  string    `json:"headline"`
	StartDate time.Time `json:"startDate"`
}

// PushSender delivers a payload to a user's live connection, if any.
// delivered is false with a nil error when the user has no connection;
// a non-nil error indicates a transport fault (callers log and move on).
type PushSender interface {
	Send(userID string, payload any) (delivered bool, err error)
}

// SweepReport aggregates the outcome of one reminder sweep. It is used for
// logging only, never for control flow.
type SweepReport struct {
	Events    int `json:"events"`
	Delivered int `json:"delivered"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ReminderService dispatches reminders to event subscribers. Both sweep modes
// are stateless between invocations; delivery is best-effort.
type ReminderService interface {
	// RemindUpcoming sweeps the current wall-clock minute [floor(now,1m), +1m).
	RemindUpcoming(ctx context.Context) (*SweepReport, error)
	// RemindWindow sweeps events with start date in [start, end).
	RemindWindow(ctx context.Context, start, end time.Time) (*SweepReport, error)
	// RemindAll dispatches for every event regardless of start date.
	RemindAll(ctx context.Context) (*SweepReport, error)
}
