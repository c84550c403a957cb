package domain

import (
	"context"
	"time"
)

// RSVPStatus is a guest's response to an invitation.
type RSVPStatus string

const (
	RSVPNoResponse     RSVPStatus = "no_response"
	RSVPAccepted       RSVPStatus = "accepted"
	RSVPDeclined       RSVPStatus = "declined"
	RSVPMaybe          RSVPStatus = "maybe"
	RSVPFailedDelivery RSVPStatus = "failed_delivery"
)

// Valid reports whether s is one of the known RSVP values.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPNoResponse, RSVPAccepted, RSVPDeclined, RSVPMaybe, RSVPFailedDelivery:
		return true
	}
	return false
}

// GuestIdentity is either a reference to a User account (linked) or raw
// contact details captured from an anonymous web submission (unlinked).
// Construct only through LinkedIdentity or UnlinkedIdentity so that the
// "neither set" and "both set" states cannot be built.
type GuestIdentity struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
}

// LinkedIdentity returns an identity referencing a user account.
func LinkedIdentity(userID string) GuestIdentity {
	return GuestIdentity{UserID: userID}
}

// UnlinkedIdentity returns an identity holding raw contact details.
func UnlinkedIdentity(name, phone, email string) GuestIdentity {
	return GuestIdentity{Name: name, Phone: phone, Email: email}
}

// Linked reports whether the identity references a user account.
func (i GuestIdentity) Linked() bool {
	return i.UserID != ""
}

// GuestRecord is one person's relationship to one event: the invitation plus
// its RSVP state. At most one linked record per (event, user) and one live
// unlinked record per (event, group, phone); both are enforced by partial
// unique indexes.
// swagger:model GuestRecord
type GuestRecord struct {
	ID            string        `json:"id"`
	EventID       string        `json:"event_id"`
	GroupID       string        `json:"group_id,omitempty"`
	Identity      GuestIdentity `json:"identity"`
	RSVP          RSVPStatus    `json:"rsvp"`
	Food          string        `json:"food,omitempty"`
	Alcohol       string        `json:"alcohol,omitempty"`
	Accommodation string        `json:"accommodation,omitempty"`
	Count         int           `json:"count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewGuestRecord returns a new GuestRecord with party size 1 and rsvp
// no_response. ID is set by the repository on create.
func NewGuestRecord(eventID, groupID string, identity GuestIdentity, createdAt time.Time) *GuestRecord {
	return &GuestRecord{
		EventID:   eventID,
		GroupID:   groupID,
		Identity:  identity,
		RSVP:      RSVPNoResponse,
		Count:     1,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// GuestListFilters narrows host-facing guest list queries. Zero values mean
// "no filter"; Linked limits the identity kind when non-nil.
type GuestListFilters struct {
	RSVP          RSVPStatus
	Food          string
	Alcohol       string
	Accommodation string
	GroupID       string
	Linked        *bool
}

// RSVPSummaryRow is one aggregate bucket of the per-event RSVP summary.
type RSVPSummaryRow struct {
	RSVP          RSVPStatus `json:"rsvp"`
	Food          string     `json:"food,omitempty"`
	Alcohol       string     `json:"alcohol,omitempty"`
	Accommodation string     `json:"accommodation,omitempty"`
	Guests        int        `json:"guests"`
	Seats         int        `json:"seats"`
}

// RSVPTotals summarizes an event's whole guest table.
type RSVPTotals struct {
	TotalInvited   int `json:"total_invited"`
	TotalConfirmed int `json:"total_confirmed"`
}

// GuestRepository defines storage operations for guest records.
type GuestRepository interface {
	Create(ctx context.Context, g *GuestRecord) error
	// CreateLinkedIfAbsent inserts a linked no_response record, skipping on
	// the (event_id, user_id) constraint. Returns created=false on conflict.
	CreateLinkedIfAbsent(ctx context.Context, g *GuestRecord) (created bool, err error)
	GetByID(ctx context.Context, id string) (*GuestRecord, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*GuestRecord, error)
	GetUnlinked(ctx context.Context, eventID, groupID, phone string) (*GuestRecord, error)
	ListUnlinkedByPhone(ctx context.Context, phone string) ([]*GuestRecord, error)
	// Link converts an unlinked record: sets user_id, nulls the contact fields.
	Link(ctx context.Context, guestID, userID string, at time.Time) error
	Update(ctx context.Context, g *GuestRecord) error
	Delete(ctx context.Context, id string) error
	ClearGroup(ctx context.Context, groupID string) (int64, error)
	ClearGroupForUser(ctx context.Context, groupID, userID string) error
	ListByEvent(ctx context.Context, eventID string, f GuestListFilters) ([]*GuestRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*GuestRecord, error)
	SummaryByEvent(ctx context.Context, eventID string) ([]*RSVPSummaryRow, *RSVPTotals, error)
}
