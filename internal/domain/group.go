package domain

import (
	"context"
	"time"
)

// GuestGroup is a named collection of invitees. A group can be attached to
// any number of events and reused across them.
// swagger:model GuestGroup
type GuestGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewGuestGroup returns a new GuestGroup. ID is set by the repository on create.
func NewGuestGroup(name, createdBy string, createdAt, updatedAt time.Time) *GuestGroup {
	return &GuestGroup{
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// GroupMember is a group membership row joined with the member's user fields.
// swagger:model GroupMember
type GroupMember struct {
	GroupID            string             `json:"group_id"`
	UserID             string             `json:"user_id"`
	AddedBy            string             `json:"added_by,omitempty"`
	Name               string             `json:"name"`
	Phone              string             `json:"phone"`
	Email              string             `json:"email,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

// InviteLink is a shareable token granting public RSVP access to a group.
type InviteLink struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestGroupRepository defines storage operations for groups, their
// memberships, event associations, and invite links.
type GuestGroupRepository interface {
	Create(ctx context.Context, g *GuestGroup) error
	GetByID(ctx context.Context, id string) (*GuestGroup, error)
	Update(ctx context.Context, g *GuestGroup) error
	Delete(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]*GuestGroup, error)

	AddMember(ctx context.Context, groupID, userID, addedBy string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]*GroupMember, error)
	DeleteMembers(ctx context.Context, groupID string) (int64, error)

	AttachEvent(ctx context.Context, eventID, groupID string) error
	DetachEvents(ctx context.Context, groupID string) (int64, error)
	ListEventIDs(ctx context.Context, groupID string) ([]string, error)
	// FirstEventID resolves the event a public invite link points at:
	// the earliest association for the group. ErrNotFound when the group
	// has no event.
	FirstEventID(ctx context.Context, groupID string) (string, error)

	CreateInviteLink(ctx context.Context, l *InviteLink) error
	GetInviteLinkByToken(ctx context.Context, token string) (*InviteLink, error)
	DeleteInviteLinks(ctx context.Context, groupID string) (int64, error)
}

// GroupService is the Guest Group Engine: group lifecycle, membership, and
// event attachment.
type GroupService interface {
	CreateGroup(ctx context.Context, name, creatorID, eventID string) (*GuestGroup, error)
	GetGroup(ctx context.Context, groupID string) (*GuestGroup, []*GroupMember, error)
	ListGroupsByEvent(ctx context.Context, eventID string) ([]*GuestGroup, error)
	AddMember(ctx context.Context, groupID, phone, actingUserID string) (*GroupMember, error)
	RemoveMember(ctx context.Context, groupID, phone string) error
	AttachGroupToEvent(ctx context.Context, eventID, groupID string) ([]*GuestRecord, error)
	UpdateGroup(ctx context.Context, groupID, name string) (*GuestGroup, error)
	DeleteGroup(ctx context.Context, groupID string) error
	GenerateInviteLink(ctx context.Context, eventID, groupID string) (*InviteLink, string, error)
}
