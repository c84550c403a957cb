package domain

import (
	"context"
	"time"
)

// Event represents a hosted event. Scheduling uses full timestamps only;
// the RSVP window closes at StartsAt.
// swagger:model Event
type Event struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	HostID        string     `json:"host_id"`
	Location      string     `json:"location,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	Image         string     `json:"image,omitempty"`
	InviteMessage string     `json:"invite_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(title, hostID, location string, startsAt time.Time, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:     title,
		HostID:    hostID,
		Location:  location,
		StartsAt:  startsAt,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Started reports whether the event's RSVP window has closed.
func (e *Event) Started(now time.Time) bool {
	return now.After(e.StartsAt)
}

// EventRole is a user's relationship to an event in their event list.
type EventRole string

const (
	EventRoleHost   EventRole = "host"
	EventRoleCoHost EventRole = "cohost"
	EventRoleGuest  EventRole = "guest"
)

// EventWithRole pairs an event with the viewer's role in it.
// swagger:model EventWithRole
type EventWithRole struct {
	*Event
	Role EventRole `json:"user_role"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	AddCoHost(ctx context.Context, eventID, userID string) error
	RemoveCoHost(ctx context.Context, eventID, userID string) error
	IsHostOrCoHost(ctx context.Context, eventID, userID string) (bool, error)
	ListByHost(ctx context.Context, userID string) ([]*Event, error)
	ListByCoHost(ctx context.Context, userID string) ([]*Event, error)
	ListByGuest(ctx context.Context, userID string) ([]*Event, error)
}

// EventService defines host-facing event operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event, actingUserID string) error
	DeleteEvent(ctx context.Context, eventID, actingUserID string) error
	ListUserEvents(ctx context.Context, userID string) ([]*EventWithRole, error)
	AddCoHost(ctx context.Context, eventID, coHostUserID, actingUserID string) error
	RemoveCoHost(ctx context.Context, eventID, coHostUserID, actingUserID string) error
	UploadEventImage(ctx context.Context, eventID, actingUserID string, data []byte, contentType string) (string, error)
}
