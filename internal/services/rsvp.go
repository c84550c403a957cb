package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

// Web-channel response messages, keyed by the submitted RSVP value.
var webRsvpMessages = map[domain.RSVPStatus]string{
	domain.RSVPAccepted:       "Great! Your RSVP has been confirmed. Download our app to manage all your event RSVPs and get updates!",
	domain.RSVPDeclined:       "Thanks for letting us know. Download our app to stay updated on future events!",
	domain.RSVPMaybe:          "Thanks for your response! Download our app to update your RSVP anytime and manage all your events!",
	domain.RSVPNoResponse:     "Thanks! Your response has been recorded. Download our app to manage all your event RSVPs and get updates!",
	domain.RSVPFailedDelivery: "We received your submission, but there was an issue delivering the response. Download our app for updates and to manage your RSVP.",
}

const alreadySubmittedMessage = "You have already submitted your RSVP. Download our app to view or update it."

type rsvpService struct {
	store domain.Store
}

// NewRSVPService creates the Guest Record Engine.
func NewRSVPService(store domain.Store) domain.RSVPService {
	return &rsvpService{store: store}
}

func (s *rsvpService) SubmitRsvp(ctx context.Context, groupID string, sub domain.RsvpSubmission, authenticatedUserID string) (*domain.RsvpResult, error) {
	if !sub.RSVP.Valid() {
		return nil, fmt.Errorf("%w: unknown rsvp value %q", domain.ErrInvalidInput, sub.RSVP)
	}
	if sub.Count < 0 {
		return nil, fmt.Errorf("%w: count must be positive", domain.ErrInvalidInput)
	}

	eventID, err := s.store.Groups().FirstEventID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: group has no event", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve group event: %w", err)
	}
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	// RSVP window check happens before any mutation.
	if event.Started(time.Now()) {
		return nil, domain.ErrExpired
	}

	if authenticatedUserID != "" {
		return s.submitAuthenticated(ctx, event.ID, groupID, sub, authenticatedUserID)
	}
	return s.submitAnonymous(ctx, event.ID, groupID, sub)
}

func (s *rsvpService) submitAuthenticated(ctx context.Context, eventID, groupID string, sub domain.RsvpSubmission, userID string) (*domain.RsvpResult, error) {
	result := &domain.RsvpResult{}
	err := s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		user, err := txs.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		// Submissions double as profile refreshes when the details differ.
		name := strings.TrimSpace(sub.Name)
		email := strings.TrimSpace(sub.Email)
		dirty := false
		if name != "" && name != user.Name {
			user.Name = name
			dirty = true
		}
		if email != "" && email != user.Email {
			user.Email = email
			dirty = true
		}
		if dirty {
			user.UpdatedAt = time.Now()
			if err := txs.Users().Update(ctx, user); err != nil {
				return fmt.Errorf("refresh user details: %w", err)
			}
		}

		now := time.Now()
		existing, err := txs.Guests().GetByEventAndUser(ctx, eventID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get guest record: %w", err)
		}

		if existing != nil {
			existing.RSVP = sub.RSVP
			existing.GroupID = groupID
			applyPrefs(existing, sub)
			existing.UpdatedAt = now
			if err := txs.Guests().Update(ctx, existing); err != nil {
				return fmt.Errorf("update guest record: %w", err)
			}
			result.Guest = existing
			result.Message = "RSVP updated successfully"
		} else {
			g := domain.NewGuestRecord(eventID, groupID, domain.LinkedIdentity(userID), now)
			g.RSVP = sub.RSVP
			applyPrefs(g, sub)
			if err := txs.Guests().Create(ctx, g); err != nil {
				return fmt.Errorf("create guest record: %w", err)
			}
			result.Guest = g
			result.Message = "RSVP submitted successfully"
		}
		result.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *rsvpService) submitAnonymous(ctx context.Context, eventID, groupID string, sub domain.RsvpSubmission) (*domain.RsvpResult, error) {
	name := strings.TrimSpace(sub.Name)
	phone := strings.TrimSpace(sub.Phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", domain.ErrInvalidInput)
	}

	result := &domain.RsvpResult{IsWebSubmission: true}
	err := s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		existing, err := txs.Guests().GetUnlinked(ctx, eventID, groupID, phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get unlinked guest: %w", err)
		}
		if existing != nil {
			// The web channel is single-shot: a phone number alone must not
			// be able to overwrite an earlier response. Edits go through the
			// authenticated app.
			result.Guest = existing
			result.AlreadySubmitted = true
			result.Message = alreadySubmittedMessage
			return nil
		}

		g := domain.NewGuestRecord(eventID, groupID, domain.UnlinkedIdentity(name, phone, strings.TrimSpace(sub.Email)), time.Now())
		g.RSVP = sub.RSVP
		applyPrefs(g, sub)
		if err := txs.Guests().Create(ctx, g); err != nil {
			// A racing duplicate lost to the (event, group, phone) index.
			if errors.Is(err, domain.ErrConflict) {
				return domain.ErrConflict
			}
			return fmt.Errorf("create unlinked guest: %w", err)
		}
		result.Guest = g
		result.Message = webRsvpMessages[sub.RSVP]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func applyPrefs(g *domain.GuestRecord, sub domain.RsvpSubmission) {
	if sub.Food != "" {
		g.Food = sub.Food
	}
	if sub.Alcohol != "" {
		g.Alcohol = sub.Alcohol
	}
	if sub.Accommodation != "" {
		g.Accommodation = sub.Accommodation
	}
	if sub.Count > 0 {
		g.Count = sub.Count
	}
}

func (s *rsvpService) GetInviteDetails(ctx context.Context, groupID, userID string) (*domain.InviteDetails, error) {
	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	eventID, err := s.store.Groups().FirstEventID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: group has no event", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve group event: %w", err)
	}
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Started(time.Now()) {
		return nil, domain.ErrExpired
	}

	details := &domain.InviteDetails{Group: group, Event: event}
	if userID != "" {
		isHost, err := s.store.Events().IsHostOrCoHost(ctx, eventID, userID)
		if err != nil {
			return nil, fmt.Errorf("check host: %w", err)
		}
		existing, err := s.store.Guests().GetByEventAndUser(ctx, eventID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get existing rsvp: %w", err)
		}
		user, err := s.store.Users().GetByID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		details.UserContext = &domain.UserContext{
			IsHostOrCoHost: isHost,
			ExistingRsvp:   existing,
			UserDetails:    user,
		}
	}
	return details, nil
}

// GetInviteDetailsByToken resolves a minted invite-link token to its group
// and returns the same payload as GetInviteDetails.
func (s *rsvpService) GetInviteDetailsByToken(ctx context.Context, token, userID string) (*domain.InviteDetails, error) {
	link, err := s.store.Groups().GetInviteLinkByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve invite token: %w", err)
	}
	return s.GetInviteDetails(ctx, link.GroupID, userID)
}

// GetGroupRsvpStatus looks up a phone's response in a group: the linked
// record when the phone belongs to an account, otherwise the unlinked web
// submission.
func (s *rsvpService) GetGroupRsvpStatus(ctx context.Context, groupID, phone string) (*domain.GuestRecord, error) {
	eventID, err := s.store.Groups().FirstEventID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve group event: %w", err)
	}

	if user, err := s.store.Users().GetByPhone(ctx, phone); err == nil {
		if g, err := s.store.Guests().GetByEventAndUser(ctx, eventID, user.ID); err == nil {
			return g, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get linked guest: %w", err)
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}

	g, err := s.store.Guests().GetUnlinked(ctx, eventID, groupID, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get unlinked guest: %w", err)
	}
	return g, nil
}

func (s *rsvpService) UpsertRsvp(ctx context.Context, userID, eventID string, status domain.RSVPStatus) (*domain.GuestRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown rsvp value %q", domain.ErrInvalidInput, status)
	}
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Started(time.Now()) {
		return nil, domain.ErrExpired
	}

	var record *domain.GuestRecord
	err = s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		now := time.Now()
		existing, err := txs.Guests().GetByEventAndUser(ctx, eventID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get guest record: %w", err)
		}
		if existing != nil {
			existing.RSVP = status
			existing.UpdatedAt = now
			if err := txs.Guests().Update(ctx, existing); err != nil {
				return fmt.Errorf("update guest record: %w", err)
			}
			record = existing
			return nil
		}
		g := domain.NewGuestRecord(eventID, "", domain.LinkedIdentity(userID), now)
		g.RSVP = status
		if err := txs.Guests().Create(ctx, g); err != nil {
			return fmt.Errorf("create guest record: %w", err)
		}
		record = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *rsvpService) CancelRsvp(ctx context.Context, userID, eventID string) (*domain.GuestRecord, error) {
	g, err := s.store.Guests().GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get guest record: %w", err)
	}
	g.RSVP = domain.RSVPNoResponse
	g.UpdatedAt = time.Now()
	if err := s.store.Guests().Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update guest record: %w", err)
	}
	return g, nil
}

func (s *rsvpService) GetRsvpStatus(ctx context.Context, userID, eventID string) (domain.RSVPStatus, error) {
	g, err := s.store.Guests().GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get guest record: %w", err)
	}
	return g.RSVP, nil
}

func (s *rsvpService) ListUserRsvps(ctx context.Context, userID string) ([]*domain.GuestRecord, error) {
	records, err := s.store.Guests().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user rsvps: %w", err)
	}
	return records, nil
}
