package domain

import (
	"context"
	"time"
)

// SubEvent is a scheduled activity inside a parent event (ceremony,
// reception, after-party). Guest records of the parent event are assigned to
// sub-events individually.
// swagger:model SubEvent
type SubEvent struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Address       string    `json:"address"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	InviteMessage string    `json:"invite_message,omitempty"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SubEventRepository defines storage for sub-events and their guest
// assignments. AddGuest must surface ErrAlreadyExists on a duplicate
// assignment.
type SubEventRepository interface {
	Create(ctx context.Context, s *SubEvent) error
	GetByID(ctx context.Context, id string) (*SubEvent, error)
	ListByEvent(ctx context.Context, eventID string) ([]*SubEvent, error)
	Update(ctx context.Context, s *SubEvent) error
	Delete(ctx context.Context, id string) error

	AddGuest(ctx context.Context, subEventID, guestID string) error
	RemoveGuest(ctx context.Context, subEventID, guestID string) error
	ListGuests(ctx context.Context, subEventID string) ([]*GuestRecord, error)
}

// SubEventService manages sub-events under a parent event. Mutations are
// gated on the parent event's host or co-hosts.
type SubEventService interface {
	CreateSubEvent(ctx context.Context, sub *SubEvent, guestIDs []string, actingUserID string) error
	GetSubEvent(ctx context.Context, subEventID string) (*SubEvent, error)
	ListSubEvents(ctx context.Context, eventID string) ([]*SubEvent, error)
	UpdateSubEvent(ctx context.Context, sub *SubEvent, actingUserID string) error
	DeleteSubEvent(ctx context.Context, subEventID, actingUserID string) error

	AddGuest(ctx context.Context, subEventID, guestID, actingUserID string) error
	RemoveGuest(ctx context.Context, subEventID, guestID, actingUserID string) error
	ListGuests(ctx context.Context, subEventID string) ([]*GuestRecord, error)
}
