package postgres

import (
	"context"
	"database/sql"

	"eventrsvp/internal/dbx"
	"eventrsvp/internal/domain"
)

// Store implements domain.Store over a Postgres handle. The zero pool field
// marks a transaction-scoped store; nested RunTx calls then reuse the open
// transaction instead of starting a new one.
type Store struct {
	pool *sql.DB
	h    dbx.DBTX
}

func NewStore(db *sql.DB) *Store {
	return &Store{pool: db, h: db}
}

func (s *Store) Users() domain.UserRepository                   { return NewUserRepository(s.h) }
func (s *Store) VerifiedPhones() domain.VerifiedPhoneRepository { return NewVerifiedPhoneRepository(s.h) }
func (s *Store) Events() domain.EventRepository                 { return NewEventRepository(s.h) }
func (s *Store) Groups() domain.GuestGroupRepository            { return NewGuestGroupRepository(s.h) }
func (s *Store) Guests() domain.GuestRepository                 { return NewGuestRepository(s.h) }
func (s *Store) Invites() domain.InviteRepository               { return NewInviteRepository(s.h) }
func (s *Store) SubEvents() domain.SubEventRepository           { return NewSubEventRepository(s.h) }

func (s *Store) RunTx(ctx context.Context, fn func(ctx context.Context, txs domain.Store) error) error {
	if s.pool == nil {
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.pool, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &Store{h: tx})
	})
}
