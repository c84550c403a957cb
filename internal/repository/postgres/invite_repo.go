package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type inviteRepository struct {
	DB dbx.DBTX
}

func NewInviteRepository(db dbx.DBTX) domain.InviteRepository {
	return &inviteRepository{DB: db}
}

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (event_id, group_id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.EventID, nullString(inv.GroupID), inv.Name, inv.Phone, nullString(inv.Email), inv.CreatedAt,
	).Scan(&inv.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *inviteRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Invite, error) {
	query := `
		SELECT id, event_id, group_id, name, phone, email, created_at
		FROM invites
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invites := make([]*domain.Invite, 0)
	for rows.Next() {
		inv := &domain.Invite{}
		var groupID, email sql.NullString
		if err := rows.Scan(&inv.ID, &inv.EventID, &groupID, &inv.Name, &inv.Phone, &email, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.GroupID = groupID.String
		inv.Email = email.String
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *inviteRepository) DeleteByGroup(ctx context.Context, groupID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM invites WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
