package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type guestGroupRepository struct {
	DB dbx.DBTX
}

func NewGuestGroupRepository(db dbx.DBTX) domain.GuestGroupRepository {
	return &guestGroupRepository{DB: db}
}

func (r *guestGroupRepository) Create(ctx context.Context, g *domain.GuestGroup) error {
	query := `
		INSERT INTO guest_groups (name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, g.Name, g.CreatedBy, g.CreatedAt, g.UpdatedAt).Scan(&g.ID)
}

func (r *guestGroupRepository) GetByID(ctx context.Context, id string) (*domain.GuestGroup, error) {
	query := `
		SELECT id, name, created_by, created_at, updated_at
		FROM guest_groups
		WHERE id = $1
	`
	g := &domain.GuestGroup{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *guestGroupRepository) Update(ctx context.Context, g *domain.GuestGroup) error {
	query := `
		UPDATE guest_groups
		SET name = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, g.ID, g.Name, g.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestGroupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM guest_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestGroupRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.GuestGroup, error) {
	query := `
		SELECT g.id, g.name, g.created_by, g.created_at, g.updated_at
		FROM guest_groups g
		JOIN event_guest_groups eg ON eg.group_id = g.id
		WHERE eg.event_id = $1
		ORDER BY g.name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]*domain.GuestGroup, 0)
	for rows.Next() {
		g := &domain.GuestGroup{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *guestGroupRepository) AddMember(ctx context.Context, groupID, userID, addedBy string) error {
	query := `
		INSERT INTO guest_group_members (group_id, user_id, added_by, created_at)
		VALUES ($1, $2, $3, now())
	`
	_, err := r.DB.ExecContext(ctx, query, groupID, userID, nullString(addedBy))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *guestGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM guest_group_members WHERE group_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestGroupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	query := `
		SELECT m.group_id, m.user_id, m.added_by, u.name, u.phone, u.email, u.verification_status
		FROM guest_group_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.group_id = $1
		ORDER BY u.name
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]*domain.GroupMember, 0)
	for rows.Next() {
		m := &domain.GroupMember{}
		var addedBy, email sql.NullString
		var status string
		if err := rows.Scan(&m.GroupID, &m.UserID, &addedBy, &m.Name, &m.Phone, &email, &status); err != nil {
			return nil, err
		}
		m.AddedBy = addedBy.String
		m.Email = email.String
		m.VerificationStatus = domain.VerificationStatus(status)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *guestGroupRepository) DeleteMembers(ctx context.Context, groupID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM guest_group_members WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *guestGroupRepository) AttachEvent(ctx context.Context, eventID, groupID string) error {
	query := `
		INSERT INTO event_guest_groups (event_id, group_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (event_id, group_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, groupID)
	return err
}

func (r *guestGroupRepository) DetachEvents(ctx context.Context, groupID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM event_guest_groups WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *guestGroupRepository) ListEventIDs(ctx context.Context, groupID string) ([]string, error) {
	query := `
		SELECT event_id FROM event_guest_groups
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *guestGroupRepository) FirstEventID(ctx context.Context, groupID string) (string, error) {
	query := `
		SELECT event_id FROM event_guest_groups
		WHERE group_id = $1
		ORDER BY created_at
		LIMIT 1
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query, groupID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

func (r *guestGroupRepository) CreateInviteLink(ctx context.Context, l *domain.InviteLink) error {
	query := `
		INSERT INTO invite_links (group_id, token, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, l.GroupID, l.Token, l.CreatedAt).Scan(&l.ID)
}

func (r *guestGroupRepository) GetInviteLinkByToken(ctx context.Context, token string) (*domain.InviteLink, error) {
	query := `
		SELECT id, group_id, token, created_at
		FROM invite_links
		WHERE token = $1
	`
	l := &domain.InviteLink{}
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&l.ID, &l.GroupID, &l.Token, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *guestGroupRepository) DeleteInviteLinks(ctx context.Context, groupID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM invite_links WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
