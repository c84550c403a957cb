package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

const guestColumns = "id, event_id, group_id, user_id, name, phone, email, rsvp, food, alcohol, accommodation, count, created_at, updated_at"

type guestRepository struct {
	DB dbx.DBTX
}

func NewGuestRepository(db dbx.DBTX) domain.GuestRepository {
	return &guestRepository{DB: db}
}

func (r *guestRepository) Create(ctx context.Context, g *domain.GuestRecord) error {
	query := `
		INSERT INTO guests (event_id, group_id, user_id, name, phone, email, rsvp, food, alcohol, accommodation, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		g.EventID, nullString(g.GroupID),
		nullString(g.Identity.UserID), nullString(g.Identity.Name), nullString(g.Identity.Phone), nullString(g.Identity.Email),
		string(g.RSVP), nullString(g.Food), nullString(g.Alcohol), nullString(g.Accommodation),
		g.Count, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *guestRepository) CreateLinkedIfAbsent(ctx context.Context, g *domain.GuestRecord) (bool, error) {
	query := `
		INSERT INTO guests (event_id, group_id, user_id, rsvp, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, user_id) WHERE user_id IS NOT NULL DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		g.EventID, nullString(g.GroupID), g.Identity.UserID,
		string(g.RSVP), g.Count, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: a record for this (event, user) already exists.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *guestRepository) GetByID(ctx context.Context, id string) (*domain.GuestRecord, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	return scanGuest(r.DB.QueryRowContext(ctx, query, id))
}

func (r *guestRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.GuestRecord, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE event_id = $1 AND user_id = $2`
	return scanGuest(r.DB.QueryRowContext(ctx, query, eventID, userID))
}

func (r *guestRepository) GetUnlinked(ctx context.Context, eventID, groupID, phone string) (*domain.GuestRecord, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE event_id = $1 AND group_id = $2 AND phone = $3 AND user_id IS NULL
	`
	return scanGuest(r.DB.QueryRowContext(ctx, query, eventID, groupID, phone))
}

func (r *guestRepository) ListUnlinkedByPhone(ctx context.Context, phone string) ([]*domain.GuestRecord, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE phone = $1 AND user_id IS NULL
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}

func (r *guestRepository) Link(ctx context.Context, guestID, userID string, at time.Time) error {
	query := `
		UPDATE guests
		SET user_id = $2, name = NULL, phone = NULL, email = NULL, updated_at = $3
		WHERE id = $1 AND user_id IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, guestID, userID, at)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrConflict
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) Update(ctx context.Context, g *domain.GuestRecord) error {
	query := `
		UPDATE guests
		SET group_id = $2, rsvp = $3, food = $4, alcohol = $5, accommodation = $6, count = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		g.ID, nullString(g.GroupID), string(g.RSVP),
		nullString(g.Food), nullString(g.Alcohol), nullString(g.Accommodation),
		g.Count, g.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) ClearGroup(ctx context.Context, groupID string) (int64, error) {
	query := `UPDATE guests SET group_id = NULL, updated_at = now() WHERE group_id = $1`
	result, err := r.DB.ExecContext(ctx, query, groupID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *guestRepository) ClearGroupForUser(ctx context.Context, groupID, userID string) error {
	query := `UPDATE guests SET group_id = NULL, updated_at = now() WHERE group_id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID)
	return err
}

func (r *guestRepository) ListByEvent(ctx context.Context, eventID string, f domain.GuestListFilters) ([]*domain.GuestRecord, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + guestColumns + ` FROM guests WHERE event_id = $1`)
	args := []any{eventID}
	add := func(clause, value string) {
		args = append(args, value)
		fmt.Fprintf(&sb, " AND %s = $%d", clause, len(args))
	}
	if f.RSVP != "" {
		add("rsvp", string(f.RSVP))
	}
	if f.Food != "" {
		add("food", f.Food)
	}
	if f.Alcohol != "" {
		add("alcohol", f.Alcohol)
	}
	if f.Accommodation != "" {
		add("accommodation", f.Accommodation)
	}
	if f.GroupID != "" {
		add("group_id", f.GroupID)
	}
	if f.Linked != nil {
		if *f.Linked {
			sb.WriteString(" AND user_id IS NOT NULL")
		} else {
			sb.WriteString(" AND user_id IS NULL")
		}
	}
	sb.WriteString(" ORDER BY group_id NULLS LAST, name NULLS FIRST, created_at")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}

func (r *guestRepository) ListByUser(ctx context.Context, userID string) ([]*domain.GuestRecord, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE user_id = $1 AND rsvp <> 'no_response'
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGuests(rows)
}

func (r *guestRepository) SummaryByEvent(ctx context.Context, eventID string) ([]*domain.RSVPSummaryRow, *domain.RSVPTotals, error) {
	query := `
		SELECT rsvp, food, alcohol, accommodation, COUNT(*), COALESCE(SUM(count), 0)
		FROM guests
		WHERE event_id = $1
		GROUP BY rsvp, food, alcohol, accommodation
		ORDER BY rsvp
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summary := make([]*domain.RSVPSummaryRow, 0)
	totals := &domain.RSVPTotals{}
	for rows.Next() {
		row := &domain.RSVPSummaryRow{}
		var rsvp string
		var food, alcohol, accommodation sql.NullString
		if err := rows.Scan(&rsvp, &food, &alcohol, &accommodation, &row.Guests, &row.Seats); err != nil {
			return nil, nil, err
		}
		row.RSVP = domain.RSVPStatus(rsvp)
		row.Food = food.String
		row.Alcohol = alcohol.String
		row.Accommodation = accommodation.String
		summary = append(summary, row)

		totals.TotalInvited += row.Guests
		if row.RSVP == domain.RSVPAccepted {
			totals.TotalConfirmed += row.Seats
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return summary, totals, nil
}

func scanGuest(row *sql.Row) (*domain.GuestRecord, error) {
	g := &domain.GuestRecord{}
	var groupID, userID, name, phone, email, food, alcohol, accommodation sql.NullString
	var rsvp string
	err := row.Scan(&g.ID, &g.EventID, &groupID, &userID, &name, &phone, &email,
		&rsvp, &food, &alcohol, &accommodation, &g.Count, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	fillGuest(g, groupID, userID, name, phone, email, rsvp, food, alcohol, accommodation)
	return g, nil
}

func collectGuests(rows *sql.Rows) ([]*domain.GuestRecord, error) {
	guests := make([]*domain.GuestRecord, 0)
	for rows.Next() {
		g := &domain.GuestRecord{}
		var groupID, userID, name, phone, email, food, alcohol, accommodation sql.NullString
		var rsvp string
		if err := rows.Scan(&g.ID, &g.EventID, &groupID, &userID, &name, &phone, &email,
			&rsvp, &food, &alcohol, &accommodation, &g.Count, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		fillGuest(g, groupID, userID, name, phone, email, rsvp, food, alcohol, accommodation)
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

func fillGuest(g *domain.GuestRecord, groupID, userID, name, phone, email sql.NullString, rsvp string, food, alcohol, accommodation sql.NullString) {
	g.GroupID = groupID.String
	if userID.Valid {
		g.Identity = domain.LinkedIdentity(userID.String)
	} else {
		g.Identity = domain.UnlinkedIdentity(name.String, phone.String, email.String)
	}
	g.RSVP = domain.RSVPStatus(rsvp)
	g.Food = food.String
	g.Alcohol = alcohol.String
	g.Accommodation = accommodation.String
}
