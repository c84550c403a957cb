package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

type userRepository struct {
	DB dbx.DBTX
}

func NewUserRepository(db dbx.DBTX) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (phone, name, email, profile_pic, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Phone, u.Name, nullString(u.Email), nullString(u.ProfilePic),
		string(u.VerificationStatus), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, phone, name, email, profile_pic, verification_status, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, phone, name, email, profile_pic, verification_status, created_at, updated_at
		FROM users
		WHERE phone = $1
	`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, phone))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var email, pic sql.NullString
	var status string
	err := row.Scan(&u.ID, &u.Phone, &u.Name, &email, &pic, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Email = email.String
	u.ProfilePic = pic.String
	u.VerificationStatus = domain.VerificationStatus(status)
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, profile_pic = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Name, nullString(u.Email), nullString(u.ProfilePic), u.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetVerificationStatus(ctx context.Context, userID string, status domain.VerificationStatus) error {
	query := `
		UPDATE users
		SET verification_status = $2, updated_at = now()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, userID, string(status))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// nullString maps "" to SQL NULL so empty optional fields are not stored as
// empty strings.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
