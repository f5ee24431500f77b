package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventplanner/internal/domain"
)

type subscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) domain.SubscriptionRepository {
	return &subscriptionRepository{
		DB: db,
	}
}

const subscriptionColumns = `id, event_id, subscriber_id, subscription_date, comment`

func (r *subscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (event_id, subscriber_id, subscription_date, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.EventID, s.SubscriberID, s.SubscriptionDate, s.Comment).Scan(&s.ID)
}

func scanSubscription(row eventScanner) (*domain.Subscription, error) {
	s := &domain.Subscription{}
	var commentNull sql.NullString
	err := row.Scan(&s.ID, &s.EventID, &s.SubscriberID, &s.SubscriptionDate, &commentNull)
	if err != nil {
		return nil, err
	}
	if commentNull.Valid {
		s.Comment = &commentNull.String
	}
	return s, nil
}

func (r *subscriptionRepository) ListBySubscriberID(ctx context.Context, subscriberID string) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_id = $1
		ORDER BY subscription_date
	`
	return r.list(ctx, query, subscriberID)
}

func (r *subscriptionRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE event_id = $1
		ORDER BY subscription_date
	`
	return r.list(ctx, query, eventID)
}

func (r *subscriptionRepository) GetByEventAndSubscriber(ctx context.Context, eventID, subscriberID string) (*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE event_id = $1 AND subscriber_id = $2
	`
	s, err := scanSubscription(r.DB.QueryRowContext(ctx, query, eventID, subscriberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// DeleteAllForEvent removes every subscription referencing eventID. Deleting
// zero rows is not an error; the cascade must be idempotent.
func (r *subscriptionRepository) DeleteAllForEvent(ctx context.Context, eventID string) error {
	query := `DELETE FROM subscriptions WHERE event_id = $1`
	_, err := r.DB.ExecContext(ctx, query, eventID)
	return err
}

func (r *subscriptionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Subscription, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	subs := make([]*domain.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
