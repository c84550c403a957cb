package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

type eventService struct {
	store   domain.Store
	storage domain.ObjectStorage
}

// NewEventService creates the host-facing event service.
func NewEventService(store domain.Store, storage domain.ObjectStorage) domain.EventService {
	return &eventService{store: store, storage: storage}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.StartsAt.IsZero() {
		return fmt.Errorf("%w: starts_at is required", domain.ErrInvalidInput)
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return fmt.Errorf("%w: ends_at precedes starts_at", domain.ErrInvalidInput)
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.store.Events().Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// requireHost gates mutations behind the host/co-host check.
func (s *eventService) requireHost(ctx context.Context, eventID, actingUserID string) error {
	ok, err := s.store.Events().IsHostOrCoHost(ctx, eventID, actingUserID)
	if err != nil {
		return fmt.Errorf("check host: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, actingUserID string) error {
	if _, err := s.store.Events().GetByID(ctx, event.ID); err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.requireHost(ctx, event.ID, actingUserID); err != nil {
		return err
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return fmt.Errorf("%w: ends_at precedes starts_at", domain.ErrInvalidInput)
	}
	event.UpdatedAt = time.Now()
	if err := s.store.Events().Update(ctx, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) AddCoHost(ctx context.Context, eventID, coHostUserID, actingUserID string) error {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	// Only the host proper can delegate; co-hosts cannot add more co-hosts.
	if event.HostID != actingUserID {
		return domain.ErrForbidden
	}
	if coHostUserID == event.HostID {
		return fmt.Errorf("%w: host is already a host", domain.ErrInvalidInput)
	}
	if _, err := s.store.Users().GetByID(ctx, coHostUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get co-host user: %w", err)
	}
	if err := s.store.Events().AddCoHost(ctx, eventID, coHostUserID); err != nil {
		return fmt.Errorf("add co-host: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, actingUserID string) error {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	// Only the host proper can delete; co-hosts cannot.
	if event.HostID != actingUserID {
		return domain.ErrForbidden
	}
	if err := s.store.Events().Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) RemoveCoHost(ctx context.Context, eventID, coHostUserID, actingUserID string) error {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event.HostID != actingUserID {
		return domain.ErrForbidden
	}
	if err := s.store.Events().RemoveCoHost(ctx, eventID, coHostUserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove co-host: %w", err)
	}
	return nil
}

// ListUserEvents merges the events a user hosts, co-hosts and attends into
// one list. An event reached through several roles appears once, labeled with
// the strongest role: host over cohost over guest.
func (s *eventService) ListUserEvents(ctx context.Context, userID string) ([]*domain.EventWithRole, error) {
	hosted, err := s.store.Events().ListByHost(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list hosted events: %w", err)
	}
	coHosted, err := s.store.Events().ListByCoHost(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list co-hosted events: %w", err)
	}
	attending, err := s.store.Events().ListByGuest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attended events: %w", err)
	}

	seen := make(map[string]bool)
	events := make([]*domain.EventWithRole, 0, len(hosted)+len(coHosted)+len(attending))
	appendAll := func(list []*domain.Event, role domain.EventRole) {
		for _, e := range list {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			events = append(events, &domain.EventWithRole{Event: e, Role: role})
		}
	}
	appendAll(hosted, domain.EventRoleHost)
	appendAll(coHosted, domain.EventRoleCoHost)
	appendAll(attending, domain.EventRoleGuest)

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

func (s *eventService) UploadEventImage(ctx context.Context, eventID, actingUserID string, data []byte, contentType string) (string, error) {
	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("get event: %w", err)
	}
	if err := s.requireHost(ctx, eventID, actingUserID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("events/%s/%s%s", eventID, uuid.NewString(), extensionFor(contentType))
	url, err := s.storage.Upload(ctx, data, key, contentType)
	if err != nil {
		return "", fmt.Errorf("upload event image: %w", err)
	}

	event.Image = url
	event.UpdatedAt = time.Now()
	if err := s.store.Events().Update(ctx, event); err != nil {
		return "", fmt.Errorf("save event image url: %w", err)
	}
	return url, nil
}
