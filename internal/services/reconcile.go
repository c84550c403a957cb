package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventrsvp/internal/domain"
)

type reconciliationService struct {
	store  domain.Store
	policy domain.ConflictPolicy
}

// NewReconciliationService creates the engine that merges unlinked guest
// records into a user's linked records. policy decides which record wins when
// both exist for the same event; the zero value defaults to LinkedWins.
func NewReconciliationService(store domain.Store, policy domain.ConflictPolicy) domain.ReconciliationService {
	if policy == "" {
		policy = domain.LinkedWins
	}
	return &reconciliationService{store: store, policy: policy}
}

func (s *reconciliationService) LinkRsvps(ctx context.Context, userID, phone string) (*domain.LinkResult, error) {
	result := &domain.LinkResult{LinkedRecords: []*domain.GuestRecord{}}

	// The whole merge-or-delete pass runs in one transaction: a partially
	// linked phone is exactly the state this engine exists to prevent.
	err := s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		return linkRsvpsTx(ctx, txs, userID, phone, s.policy, result)
	})
	if err != nil {
		return nil, fmt.Errorf("link rsvps for user %s: %w", userID, err)
	}

	setLinkMessage(result)
	return result, nil
}

func setLinkMessage(result *domain.LinkResult) {
	if result.LinkedCount == 0 {
		result.Message = "no previous RSVPs found"
		return
	}
	result.Message = fmt.Sprintf("linked %d previous RSVP(s) to your account", result.LinkedCount)
}

// linkRsvpsTx is the merge pass proper; callers that already hold a
// transaction (OTP verification, onboarding) invoke it directly so the link
// commits atomically with the verification-state transition.
func linkRsvpsTx(ctx context.Context, txs domain.Store, userID, phone string, policy domain.ConflictPolicy, result *domain.LinkResult) error {
	candidates, err := txs.Guests().ListUnlinkedByPhone(ctx, phone)
	if err != nil {
		return fmt.Errorf("list unlinked guests: %w", err)
	}

	now := time.Now()
	for _, g := range candidates {
		existing, err := txs.Guests().GetByEventAndUser(ctx, g.EventID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get linked guest: %w", err)
		}

		if existing != nil {
			if policy == domain.UnlinkedWins {
				existing.RSVP = g.RSVP
				existing.Food = g.Food
				existing.Alcohol = g.Alcohol
				existing.Accommodation = g.Accommodation
				existing.Count = g.Count
				existing.UpdatedAt = now
				if err := txs.Guests().Update(ctx, existing); err != nil {
					return fmt.Errorf("merge unlinked rsvp: %w", err)
				}
			}
			// The duplicate row is removed either way.
			if err := txs.Guests().Delete(ctx, g.ID); err != nil {
				return fmt.Errorf("delete duplicate guest: %w", err)
			}
			continue
		}

		if err := txs.Guests().Link(ctx, g.ID, userID, now); err != nil {
			return fmt.Errorf("link guest %s: %w", g.ID, err)
		}
		g.Identity = domain.LinkedIdentity(userID)
		g.UpdatedAt = now
		result.LinkedCount++
		result.LinkedRecords = append(result.LinkedRecords, g)
	}
	return nil
}
