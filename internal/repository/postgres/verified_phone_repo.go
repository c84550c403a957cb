package postgres

import (
	"context"
	"time"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type verifiedPhoneRepository struct {
	DB dbx.DBTX
}

func NewVerifiedPhoneRepository(db dbx.DBTX) domain.VerifiedPhoneRepository {
	return &verifiedPhoneRepository{DB: db}
}

func (r *verifiedPhoneRepository) Record(ctx context.Context, phone string, verifiedAt time.Time) error {
	// Re-verifying an already recorded phone refreshes the timestamp and
	// reopens a consumed entry.
	query := `
		INSERT INTO verified_phones (phone, verified_at)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET verified_at = EXCLUDED.verified_at, consumed_at = NULL
	`
	_, err := r.DB.ExecContext(ctx, query, phone, verifiedAt)
	return err
}

func (r *verifiedPhoneRepository) IsVerified(ctx context.Context, phone string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM verified_phones
			WHERE phone = $1 AND consumed_at IS NULL
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, phone).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *verifiedPhoneRepository) Consume(ctx context.Context, phone string, consumedAt time.Time) (bool, error) {
	query := `
		UPDATE verified_phones
		SET consumed_at = $2
		WHERE phone = $1 AND consumed_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, phone, consumedAt)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
