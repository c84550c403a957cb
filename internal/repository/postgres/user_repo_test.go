package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventrsvp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    *domain.User
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			user: &domain.User{
				Phone:              "+15550001",
				Name:               "Dana",
				Email:              "dana@example.com",
				VerificationStatus: domain.VerificationVerified,
				CreatedAt:          now,
				UpdatedAt:          now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(phone, name, email, profile_pic, verification_status, created_at, updated_at\)`).
					WithArgs("+15550001", "Dana", "dana@example.com", nil, "verified", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
			wantID: "user-uuid-1",
		},
		{
			name: "duplicate phone",
			user: &domain.User{
				Phone:              "+15550001",
				Name:               "Dana",
				VerificationStatus: domain.VerificationUnverified,
				CreatedAt:          now,
				UpdatedAt:          now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name: "db error",
			user: &domain.User{
				Phone:     "+15550002",
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewUserRepository(db).Create(ctx, tt.user)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByPhone(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.User
		wantErr error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, phone, name, email, profile_pic, verification_status, created_at, updated_at\s+FROM users\s+WHERE phone = \$1`).
					WithArgs("+15550001").
					WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "name", "email", "profile_pic", "verification_status", "created_at", "updated_at"}).
						AddRow("user-uuid-1", "+15550001", "Dana", nil, nil, "verified", now, now))
			},
			want: &domain.User{
				ID:                 "user-uuid-1",
				Phone:              "+15550001",
				Name:               "Dana",
				VerificationStatus: domain.VerificationVerified,
				CreatedAt:          now,
				UpdatedAt:          now,
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM users`).
					WithArgs("+15550001").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewUserRepository(db).GetByPhone(ctx, "+15550001")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE users\s+SET name = \$2, email = \$3, profile_pic = \$4, updated_at = \$5`).
			WithArgs("user-uuid-1", "Dana R", "dana@example.com", nil, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = NewUserRepository(db).Update(ctx, &domain.User{
			ID: "user-uuid-1", Name: "Dana R", Email: "dana@example.com", UpdatedAt: now,
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE users`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = NewUserRepository(db).Update(ctx, &domain.User{ID: "nope", Name: "x", UpdatedAt: now})
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_SetVerificationStatus(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users\s+SET verification_status = \$2`).
		WithArgs("user-uuid-1", "verified").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewUserRepository(db).SetVerificationStatus(ctx, "user-uuid-1", domain.VerificationVerified)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
