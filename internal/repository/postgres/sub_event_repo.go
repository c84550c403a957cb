package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type subEventRepository struct {
	DB dbx.DBTX
}

func NewSubEventRepository(db dbx.DBTX) domain.SubEventRepository {
	return &subEventRepository{DB: db}
}

func (r *subEventRepository) Create(ctx context.Context, s *domain.SubEvent) error {
	query := `
		INSERT INTO sub_events (event_id, title, location, address, starts_at, ends_at, invite_message, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.EventID, s.Title, s.Location, s.Address, s.StartsAt, s.EndsAt,
		nullString(s.InviteMessage), nullString(s.Image), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *subEventRepository) GetByID(ctx context.Context, id string) (*domain.SubEvent, error) {
	query := `
		SELECT id, event_id, title, location, address, starts_at, ends_at, invite_message, image, created_at, updated_at
		FROM sub_events
		WHERE id = $1
	`
	s := &domain.SubEvent{}
	var inviteMsg, image sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.EventID, &s.Title, &s.Location, &s.Address, &s.StartsAt, &s.EndsAt,
		&inviteMsg, &image, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.InviteMessage = inviteMsg.String
	s.Image = image.String
	return s, nil
}

func (r *subEventRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.SubEvent, error) {
	query := `
		SELECT id, event_id, title, location, address, starts_at, ends_at, invite_message, image, created_at, updated_at
		FROM sub_events
		WHERE event_id = $1
		ORDER BY starts_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	subs := make([]*domain.SubEvent, 0)
	for rows.Next() {
		s := &domain.SubEvent{}
		var inviteMsg, image sql.NullString
		if err := rows.Scan(&s.ID, &s.EventID, &s.Title, &s.Location, &s.Address, &s.StartsAt, &s.EndsAt,
			&inviteMsg, &image, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.InviteMessage = inviteMsg.String
		s.Image = image.String
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *subEventRepository) Update(ctx context.Context, s *domain.SubEvent) error {
	query := `
		UPDATE sub_events
		SET title = $2, location = $3, address = $4, starts_at = $5, ends_at = $6, invite_message = $7, image = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		s.ID, s.Title, s.Location, s.Address, s.StartsAt, s.EndsAt,
		nullString(s.InviteMessage), nullString(s.Image), s.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sub_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subEventRepository) AddGuest(ctx context.Context, subEventID, guestID string) error {
	query := `
		INSERT INTO sub_event_guests (sub_event_id, guest_id, created_at)
		VALUES ($1, $2, now())
	`
	_, err := r.DB.ExecContext(ctx, query, subEventID, guestID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *subEventRepository) RemoveGuest(ctx context.Context, subEventID, guestID string) error {
	query := `DELETE FROM sub_event_guests WHERE sub_event_id = $1 AND guest_id = $2`
	result, err := r.DB.ExecContext(ctx, query, subEventID, guestID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subEventRepository) ListGuests(ctx context.Context, subEventID string) ([]*domain.GuestRecord, error) {
	query := `
		SELECT g.id, g.event_id, g.group_id, g.user_id, g.name, g.phone, g.email, g.rsvp, g.food, g.alcohol, g.accommodation, g.count, g.created_at, g.updated_at
		FROM guests g
		JOIN sub_event_guests sg ON sg.guest_id = g.id
		WHERE sg.sub_event_id = $1
		ORDER BY sg.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, subEventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}
