package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type reportService struct {
	store domain.Store
}

// NewReportService creates the host-facing reporting layer.
func NewReportService(store domain.Store) domain.ReportService {
	return &reportService{store: store}
}

// requireHost gates every report behind the host/co-host check.
func (s *reportService) requireHost(ctx context.Context, eventID, callerID string) error {
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	ok, err := s.store.Events().IsHostOrCoHost(ctx, eventID, callerID)
	if err != nil {
		return fmt.Errorf("check host: %w", err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

func (s *reportService) GuestList(ctx context.Context, eventID, callerID string, f domain.GuestListFilters) (*domain.GuestListResult, error) {
	if err := s.requireHost(ctx, eventID, callerID); err != nil {
		return nil, err
	}
	records, err := s.store.Guests().ListByEvent(ctx, eventID, f)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	result := &domain.GuestListResult{
		Linked:   []*domain.GuestRecord{},
		Unlinked: []*domain.GuestRecord{},
		Total:    len(records),
	}
	for _, g := range records {
		if g.Identity.Linked() {
			result.Linked = append(result.Linked, g)
		} else {
			result.Unlinked = append(result.Unlinked, g)
		}
	}
	return result, nil
}

func (s *reportService) RsvpSummary(ctx context.Context, eventID, callerID string) ([]*domain.RSVPSummaryRow, *domain.RSVPTotals, error) {
	if err := s.requireHost(ctx, eventID, callerID); err != nil {
		return nil, nil, err
	}
	rows, totals, err := s.store.Guests().SummaryByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("summarize rsvps: %w", err)
	}
	return rows, totals, nil
}

func (s *reportService) BulkCreateInvites(ctx context.Context, eventID, callerID string, rows []*domain.Invite) (*domain.BulkInviteResult, error) {
	if err := s.requireHost(ctx, eventID, callerID); err != nil {
		return nil, err
	}

	result := &domain.BulkInviteResult{
		Created: []*domain.Invite{},
		Failed:  []*domain.FailedInvite{},
	}
	now := time.Now()
	for _, row := range rows {
		inv := &domain.Invite{
			EventID:   eventID,
			GroupID:   row.GroupID,
			Name:      strings.TrimSpace(row.Name),
			Phone:     strings.TrimSpace(row.Phone),
			Email:     strings.TrimSpace(row.Email),
			CreatedAt: now,
		}
		if inv.Name == "" || inv.Phone == "" {
			result.Failed = append(result.Failed, &domain.FailedInvite{Invite: *inv, Reason: "name and phone are required"})
			continue
		}
		if err := s.store.Invites().Create(ctx, inv); err != nil {
			reason := "could not create invite"
			if errors.Is(err, domain.ErrAlreadyExists) {
				reason = "phone already invited to this event"
			}
			result.Failed = append(result.Failed, &domain.FailedInvite{Invite: *inv, Reason: reason})
			continue
		}
		result.Created = append(result.Created, inv)
	}
	return result, nil
}
