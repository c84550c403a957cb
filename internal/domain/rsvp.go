package domain

import "context"

// RsvpSubmission is the payload of a group-invite RSVP, from either channel.
// Name/Phone are required on the anonymous path; on the authenticated path
// they refresh the user's profile when they differ.
type RsvpSubmission struct {
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	RSVP          RSVPStatus `json:"rsvp"`
	Food          string     `json:"food,omitempty"`
	Alcohol       string     `json:"alcohol,omitempty"`
	Accommodation string     `json:"accommodation,omitempty"`
	Count         int        `json:"count,omitempty"`
}

// RsvpResult is the outcome of an RSVP submission.
type RsvpResult struct {
	Guest            *GuestRecord `json:"guest"`
	User             *User        `json:"user,omitempty"`
	Message          string       `json:"message"`
	IsWebSubmission  bool         `json:"is_web_submission"`
	AlreadySubmitted bool         `json:"already_submitted"`
}

// InviteDetails is the public view behind a group invite link, with extra
// context when the viewer is authenticated.
type InviteDetails struct {
	Group       *GuestGroup  `json:"group"`
	Event       *Event       `json:"event"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// UserContext is the authenticated viewer's relationship to the invite.
type UserContext struct {
	IsHostOrCoHost bool         `json:"is_host_or_co_host"`
	ExistingRsvp   *GuestRecord `json:"existing_rsvp,omitempty"`
	UserDetails    *User        `json:"user_details,omitempty"`
}

// RSVPService is the Guest Record Engine: submission and lookup of per-event
// attendance records through group invites and the authenticated app.
type RSVPService interface {
	// SubmitRsvp handles both channels: authenticatedUserID empty means the
	// anonymous web path, which is single-shot per (event, group, phone).
	SubmitRsvp(ctx context.Context, groupID string, sub RsvpSubmission, authenticatedUserID string) (*RsvpResult, error)
	GetInviteDetails(ctx context.Context, groupID, userID string) (*InviteDetails, error)
	// GetInviteDetailsByToken resolves a minted invite-link token to the same
	// payload; the client continues with the group ID it carries.
	GetInviteDetailsByToken(ctx context.Context, token, userID string) (*InviteDetails, error)
	GetGroupRsvpStatus(ctx context.Context, groupID, phone string) (*GuestRecord, error)

	UpsertRsvp(ctx context.Context, userID, eventID string, status RSVPStatus) (*GuestRecord, error)
	CancelRsvp(ctx context.Context, userID, eventID string) (*GuestRecord, error)
	GetRsvpStatus(ctx context.Context, userID, eventID string) (RSVPStatus, error)
	ListUserRsvps(ctx context.Context, userID string) ([]*GuestRecord, error)
}

// GuestListResult partitions an event's guest records by identity kind.
type GuestListResult struct {
	Linked   []*GuestRecord `json:"linked"`
	Unlinked []*GuestRecord `json:"unlinked"`
	Total    int            `json:"total"`
}

// BulkInviteResult reports per-row outcomes of a bulk import.
type BulkInviteResult struct {
	Created []*Invite       `json:"created"`
	Failed  []*FailedInvite `json:"failed"`
}

// ReportService is the host-facing read side over merged guest state.
type ReportService interface {
	GuestList(ctx context.Context, eventID, callerID string, f GuestListFilters) (*GuestListResult, error)
	RsvpSummary(ctx context.Context, eventID, callerID string) ([]*RSVPSummaryRow, *RSVPTotals, error)
	BulkCreateInvites(ctx context.Context, eventID, callerID string, rows []*Invite) (*BulkInviteResult, error)
}
