package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, creator_id, headline, description, start_date, location_name, location_lat, location_lon, state, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (creator_id, headline, description, start_date, location_name, location_lat, location_lon, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.CreatorID, e.Headline, e.Description, e.StartDate,
		e.Location.Name, e.Location.Lat, e.Location.Lon,
		string(e.State), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

type eventScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row eventScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, nameNull sql.NullString
	var latNull, lonNull sql.NullFloat64
	var state string
	err := row.Scan(
		&e.ID, &e.CreatorID, &e.Headline, &descNull, &e.StartDate,
		&nameNull, &latNull, &lonNull, &state, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if nameNull.Valid {
		e.Location.Name = &nameNull.String
	}
	if latNull.Valid {
		e.Location.Lat = &latNull.Float64
	}
	if lonNull.Valid {
		e.Location.Lon = &lonNull.Float64
	}
	e.State = domain.EventState(state)
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events
		SET headline = $1, description = $2, start_date = $3,
			location_name = $4, location_lat = $5, location_lon = $6,
			state = $7, updated_at = $8
		WHERE id = $9
		RETURNING ` + eventColumns + `
	`
	updated, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		e.Headline, e.Description, e.StartDate,
		e.Location.Name, e.Location.Lat, e.Location.Lon,
		string(e.State), e.UpdatedAt, e.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) CountPublicByCreator(ctx context.Context, creatorID string) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE creator_id = $1 AND state = 'public'`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, creatorID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *eventRepository) ListPublic(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE state = 'public'
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *eventRepository) ListVisibleTo(ctx context.Context, viewerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE state IN ('public', 'private') OR creator_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, viewerID)
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *eventRepository) ListByStartDateRange(ctx context.Context, start, end time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_date >= $1 AND start_date < $2
		ORDER BY start_date
	`
	return r.list(ctx, query, start, end)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
