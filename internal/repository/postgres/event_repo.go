package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type eventRepository struct {
	DB dbx.DBTX
}

func NewEventRepository(db dbx.DBTX) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, host_id, location, starts_at, ends_at, image, invite_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var endsAt sql.NullTime
	if e.EndsAt != nil {
		endsAt = sql.NullTime{Time: *e.EndsAt, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.HostID, nullString(e.Location), e.StartsAt, endsAt,
		nullString(e.Image), nullString(e.InviteMessage), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, host_id, location, starts_at, ends_at, image, invite_message, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var location, image, inviteMsg sql.NullString
	var endsAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.HostID, &location, &e.StartsAt, &endsAt,
		&image, &inviteMsg, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Location = location.String
	e.Image = image.String
	e.InviteMessage = inviteMsg.String
	if endsAt.Valid {
		e.EndsAt = &endsAt.Time
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, location = $3, starts_at = $4, ends_at = $5, image = $6, invite_message = $7, updated_at = $8
		WHERE id = $1
	`
	var endsAt sql.NullTime
	if e.EndsAt != nil {
		endsAt = sql.NullTime{Time: *e.EndsAt, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, nullString(e.Location), e.StartsAt, endsAt,
		nullString(e.Image), nullString(e.InviteMessage), e.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) AddCoHost(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_co_hosts (event_id, user_id)
		VALUES ($1, $2)
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *eventRepository) RemoveCoHost(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_co_hosts WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const eventColumns = "id, title, host_id, location, starts_at, ends_at, image, invite_message, created_at, updated_at"

func (r *eventRepository) ListByHost(ctx context.Context, hostID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE host_id = $1
		ORDER BY starts_at
	`
	rows, err := r.DB.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListByCoHost(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.host_id, e.location, e.starts_at, e.ends_at, e.image, e.invite_message, e.created_at, e.updated_at
		FROM events e
		JOIN event_co_hosts ch ON ch.event_id = e.id
		WHERE ch.user_id = $1
		ORDER BY e.starts_at
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListByGuest(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT e.id, e.title, e.host_id, e.location, e.starts_at, e.ends_at, e.image, e.invite_message, e.created_at, e.updated_at
		FROM events e
		JOIN guests g ON g.event_id = e.id
		WHERE g.user_id = $1
		ORDER BY e.starts_at
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var location, image, inviteMsg sql.NullString
		var endsAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.HostID, &location, &e.StartsAt, &endsAt,
			&image, &inviteMsg, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Location = location.String
		e.Image = image.String
		e.InviteMessage = inviteMsg.String
		if endsAt.Valid {
			e.EndsAt = &endsAt.Time
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) IsHostOrCoHost(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM events WHERE id = $1 AND host_id = $2
			UNION ALL
			SELECT 1 FROM event_co_hosts WHERE event_id = $1 AND user_id = $2
		)
	`
	var ok bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
