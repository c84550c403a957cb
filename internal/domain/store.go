package domain

import "context"

// Store bundles the repositories bound to a single database handle. RunTx
// re-binds them to one transaction: every multi-step mutation (group creation
// plus event association, group deletion cascade, the reconciliation
// merge-or-delete pass) goes through it so the pass commits or rolls back as
// a whole.
type Store interface {
	Users() UserRepository
	VerifiedPhones() VerifiedPhoneRepository
	Events() EventRepository
	SubEvents() SubEventRepository
	Groups() GuestGroupRepository
	Guests() GuestRepository
	Invites() InviteRepository

	RunTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
