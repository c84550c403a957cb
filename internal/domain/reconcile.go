package domain

import "context"

// ConflictPolicy decides which record survives when reconciliation finds
// both a linked and an unlinked GuestRecord for the same (user, event).
type ConflictPolicy string

const (
	// LinkedWins keeps the pre-existing linked record and discards the
	// unlinked one, including its RSVP choice.
	LinkedWins ConflictPolicy = "linked_wins"
	// UnlinkedWins copies the unlinked record's RSVP and preferences onto
	// the linked record before discarding the row.
	UnlinkedWins ConflictPolicy = "unlinked_wins"
)

// LinkResult reports one reconciliation pass.
type LinkResult struct {
	LinkedCount   int            `json:"linked_count"`
	LinkedRecords []*GuestRecord `json:"linked_records"`
	Message       string         `json:"message"`
}

// ReconciliationService merges unlinked guest records into a user's linked
// records when their phone number becomes a verified identity.
type ReconciliationService interface {
	// LinkRsvps runs the whole merge pass in one transaction. Afterwards no
	// unlinked record for the phone remains, and at most one linked record
	// exists per event for the user.
	LinkRsvps(ctx context.Context, userID, phone string) (*LinkResult, error)
}

// VerifyOTPResult is the outcome of an OTP verification.
type VerifyOTPResult struct {
	// NeedsOnboarding is true when no account exists yet; the phone has been
	// recorded as verified and the caller should proceed to Onboard.
	NeedsOnboarding bool        `json:"needs_onboarding"`
	Token           string      `json:"token,omitempty"`
	User            *User       `json:"user,omitempty"`
	Link            *LinkResult `json:"link,omitempty"`
}

// OnboardingService drives a phone's identity state machine: OTP challenge,
// account creation, and the inline reconciliation run on every transition to
// a verified, addressable user.
type OnboardingService interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*VerifyOTPResult, error)
	Onboard(ctx context.Context, phone, name, email string) (*VerifyOTPResult, error)
}
