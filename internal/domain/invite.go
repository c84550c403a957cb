package domain

import (
	"context"
	"time"
)

// Invite is a bulk-imported intended invitee, distinct from a GuestRecord:
// it exists before any RSVP does. Unique on (phone, event).
// swagger:model Invite
type Invite struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteRepository defines storage operations for bulk invites.
// Create must surface ErrAlreadyExists on the (phone, event) constraint.
type InviteRepository interface {
	Create(ctx context.Context, inv *Invite) error
	ListByEvent(ctx context.Context, eventID string) ([]*Invite, error)
	DeleteByGroup(ctx context.Context, groupID string) (int64, error)
}

// FailedInvite is a bulk-import row that could not be created, with the reason.
type FailedInvite struct {
	Invite
	Reason string `json:"reason"`
}
