package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type subEventService struct {
	store domain.Store
}

// NewSubEventService creates the sub-event scheduler for activities inside a
// parent event.
func NewSubEventService(store domain.Store) domain.SubEventService {
	return &subEventService{store: store}
}

// canManage gates sub-event mutations on the parent event's host or co-hosts.
func (s *subEventService) canManage(ctx context.Context, eventID, actingUserID string) error {
	ok, err := s.store.Events().IsHostOrCoHost(ctx, eventID, actingUserID)
	if err != nil {
		return fmt.Errorf("check host: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

func validateSubEvent(sub *domain.SubEvent) error {
	if strings.TrimSpace(sub.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Location) == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Address) == "" {
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if sub.StartsAt.IsZero() || sub.EndsAt.IsZero() {
		return fmt.Errorf("%w: starts_at and ends_at are required", domain.ErrInvalidInput)
	}
	if sub.EndsAt.Before(sub.StartsAt) {
		return fmt.Errorf("%w: ends_at precedes starts_at", domain.ErrInvalidInput)
	}
	return nil
}

// requireEventGuest checks that guestID is a guest record of eventID.
func requireEventGuest(ctx context.Context, store domain.Store, eventID, guestID string) error {
	guest, err := store.Guests().GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: guest not found", domain.ErrNotFound)
		}
		return fmt.Errorf("get guest: %w", err)
	}
	if guest.EventID != eventID {
		return fmt.Errorf("%w: guest belongs to another event", domain.ErrInvalidInput)
	}
	return nil
}

func (s *subEventService) CreateSubEvent(ctx context.Context, sub *domain.SubEvent, guestIDs []string, actingUserID string) error {
	if _, err := s.store.Events().GetByID(ctx, sub.EventID); err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.canManage(ctx, sub.EventID, actingUserID); err != nil {
		return err
	}
	if err := validateSubEvent(sub); err != nil {
		return err
	}

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	// Sub-event row and its initial guest assignments commit together.
	return s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if err := txs.SubEvents().Create(ctx, sub); err != nil {
			return fmt.Errorf("create sub-event: %w", err)
		}
		for _, guestID := range guestIDs {
			if err := requireEventGuest(ctx, txs, sub.EventID, guestID); err != nil {
				return err
			}
			if err := txs.SubEvents().AddGuest(ctx, sub.ID, guestID); err != nil {
				return fmt.Errorf("assign guest: %w", err)
			}
		}
		return nil
	})
}

func (s *subEventService) GetSubEvent(ctx context.Context, subEventID string) (*domain.SubEvent, error) {
	sub, err := s.store.SubEvents().GetByID(ctx, subEventID)
	if err != nil {
		return nil, fmt.Errorf("get sub-event: %w", err)
	}
	return sub, nil
}

func (s *subEventService) ListSubEvents(ctx context.Context, eventID string) ([]*domain.SubEvent, error) {
	subs, err := s.store.SubEvents().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sub-events: %w", err)
	}
	return subs, nil
}

func (s *subEventService) UpdateSubEvent(ctx context.Context, sub *domain.SubEvent, actingUserID string) error {
	existing, err := s.store.SubEvents().GetByID(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("get sub-event: %w", err)
	}
	if err := s.canManage(ctx, existing.EventID, actingUserID); err != nil {
		return err
	}
	if err := validateSubEvent(sub); err != nil {
		return err
	}
	// The parent event of a sub-event is fixed at creation.
	sub.EventID = existing.EventID
	sub.UpdatedAt = time.Now()
	if err := s.store.SubEvents().Update(ctx, sub); err != nil {
		return fmt.Errorf("update sub-event: %w", err)
	}
	return nil
}

func (s *subEventService) DeleteSubEvent(ctx context.Context, subEventID, actingUserID string) error {
	sub, err := s.store.SubEvents().GetByID(ctx, subEventID)
	if err != nil {
		return fmt.Errorf("get sub-event: %w", err)
	}
	if err := s.canManage(ctx, sub.EventID, actingUserID); err != nil {
		return err
	}
	if err := s.store.SubEvents().Delete(ctx, subEventID); err != nil {
		return fmt.Errorf("delete sub-event: %w", err)
	}
	return nil
}

func (s *subEventService) AddGuest(ctx context.Context, subEventID, guestID, actingUserID string) error {
	sub, err := s.store.SubEvents().GetByID(ctx, subEventID)
	if err != nil {
		return fmt.Errorf("get sub-event: %w", err)
	}
	if err := s.canManage(ctx, sub.EventID, actingUserID); err != nil {
		return err
	}
	if err := requireEventGuest(ctx, s.store, sub.EventID, guestID); err != nil {
		return err
	}
	if err := s.store.SubEvents().AddGuest(ctx, subEventID, guestID); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("assign guest: %w", err)
	}
	return nil
}

func (s *subEventService) RemoveGuest(ctx context.Context, subEventID, guestID, actingUserID string) error {
	sub, err := s.store.SubEvents().GetByID(ctx, subEventID)
	if err != nil {
		return fmt.Errorf("get sub-event: %w", err)
	}
	if err := s.canManage(ctx, sub.EventID, actingUserID); err != nil {
		return err
	}
	if err := s.store.SubEvents().RemoveGuest(ctx, subEventID, guestID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("unassign guest: %w", err)
	}
	return nil
}

func (s *subEventService) ListGuests(ctx context.Context, subEventID string) ([]*domain.GuestRecord, error) {
	if _, err := s.store.SubEvents().GetByID(ctx, subEventID); err != nil {
		return nil, fmt.Errorf("get sub-event: %w", err)
	}
	guests, err := s.store.SubEvents().ListGuests(ctx, subEventID)
	if err != nil {
		return nil, fmt.Errorf("list sub-event guests: %w", err)
	}
	return guests, nil
}
