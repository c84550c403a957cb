package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

type groupService struct {
	store      domain.Store
	inviteBase string
}

// NewGroupService creates the Guest Group Engine. inviteBase is the public
// frontend URL that invite-link tokens are appended to.
func NewGroupService(store domain.Store, inviteBase string) domain.GroupService {
	return &groupService{store: store, inviteBase: strings.TrimSuffix(inviteBase, "/")}
}

func (s *groupService) CreateGroup(ctx context.Context, name, creatorID, eventID string) (*domain.GuestGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := time.Now()
	group := domain.NewGuestGroup(name, creatorID, now, now)

	// Group row and event association are created atomically.
	err := s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if err := txs.Groups().Create(ctx, group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		if err := txs.Groups().AttachEvent(ctx, eventID, group.ID); err != nil {
			return fmt.Errorf("attach group to event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID string) (*domain.GuestGroup, []*domain.GroupMember, error) {
	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get group: %w", err)
	}
	members, err := s.store.Groups().ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	return group, members, nil
}

func (s *groupService) ListGroupsByEvent(ctx context.Context, eventID string) ([]*domain.GuestGroup, error) {
	groups, err := s.store.Groups().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AddMember resolves or creates the User for phone and adds the membership.
// A phone with no account gets an unverified placeholder user; it is promoted
// later when the person completes OTP verification.
func (s *groupService) AddMember(ctx context.Context, groupID, phone, actingUserID string) (*domain.GroupMember, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", domain.ErrInvalidInput)
	}
	if _, err := s.store.Groups().GetByID(ctx, groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	user, err := ensureUser(ctx, s.store, phone)
	if err != nil {
		return nil, err
	}

	if err := s.store.Groups().AddMember(ctx, groupID, user.ID, actingUserID); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, fmt.Errorf("add member: %w", err)
	}

	return &domain.GroupMember{
		GroupID:            groupID,
		UserID:             user.ID,
		AddedBy:            actingUserID,
		Name:               user.Name,
		Phone:              user.Phone,
		Email:              user.Email,
		VerificationStatus: user.VerificationStatus,
	}, nil
}

// ensureUser is the idempotent phone-to-user factory: it resolves an existing
// account or creates an unverified placeholder. A create racing another
// request loses on the unique phone constraint and re-fetches the winner.
func ensureUser(ctx context.Context, store domain.Store, phone string) (*domain.User, error) {
	user, err := store.Users().GetByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}

	now := time.Now()
	user = domain.NewUser(phone, "", "", domain.VerificationUnverified, now, now)
	if err := store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return store.Users().GetByPhone(ctx, phone)
		}
		return nil, fmt.Errorf("create placeholder user: %w", err)
	}
	return user, nil
}

func (s *groupService) RemoveMember(ctx context.Context, groupID, phone string) error {
	user, err := s.store.Users().GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user by phone: %w", err)
	}

	// Membership goes away; attendance history stays, detached from the group.
	return s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if err := txs.Groups().RemoveMember(ctx, groupID, user.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("remove member: %w", err)
		}
		if err := txs.Guests().ClearGroupForUser(ctx, groupID, user.ID); err != nil {
			return fmt.Errorf("clear guest group refs: %w", err)
		}
		return nil
	})
}

func (s *groupService) AttachGroupToEvent(ctx context.Context, eventID, groupID string) ([]*domain.GuestRecord, error) {
	if _, err := s.store.Events().GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.store.Groups().GetByID(ctx, groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}

	created := make([]*domain.GuestRecord, 0)
	err := s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if err := txs.Groups().AttachEvent(ctx, eventID, groupID); err != nil {
			return fmt.Errorf("attach event: %w", err)
		}
		members, err := txs.Groups().ListMembers(ctx, groupID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		now := time.Now()
		for _, m := range members {
			g := domain.NewGuestRecord(eventID, groupID, domain.LinkedIdentity(m.UserID), now)
			ok, err := txs.Guests().CreateLinkedIfAbsent(ctx, g)
			if err != nil {
				return fmt.Errorf("create guest record: %w", err)
			}
			// Members who already hold a record for this event are skipped;
			// re-attaching is a no-op for them.
			if ok {
				created = append(created, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := s.store.Groups().GetByID(ctx, groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get group: %w", err)
	}

	// Cascade order: satellites first, guests detached (not deleted), group
	// row last. One transaction; a partial cascade must never commit.
	return s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if _, err := txs.Groups().DeleteMembers(ctx, groupID); err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		if _, err := txs.Groups().DetachEvents(ctx, groupID); err != nil {
			return fmt.Errorf("detach events: %w", err)
		}
		if _, err := txs.Groups().DeleteInviteLinks(ctx, groupID); err != nil {
			return fmt.Errorf("delete invite links: %w", err)
		}
		if _, err := txs.Invites().DeleteByGroup(ctx, groupID); err != nil {
			return fmt.Errorf("delete invites: %w", err)
		}
		if _, err := txs.Guests().ClearGroup(ctx, groupID); err != nil {
			return fmt.Errorf("clear guest group refs: %w", err)
		}
		if err := txs.Groups().Delete(ctx, groupID); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		return nil
	})
}

func (s *groupService) GenerateInviteLink(ctx context.Context, eventID, groupID string) (*domain.InviteLink, string, error) {
	eventIDs, err := s.store.Groups().ListEventIDs(ctx, groupID)
	if err != nil {
		return nil, "", fmt.Errorf("list group events: %w", err)
	}
	associated := false
	for _, id := range eventIDs {
		if id == eventID {
			associated = true
			break
		}
	}
	if !associated {
		return nil, "", fmt.Errorf("%w: group is not associated with this event", domain.ErrNotFound)
	}

	link := &domain.InviteLink{
		GroupID:   groupID,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := s.store.Groups().CreateInviteLink(ctx, link); err != nil {
		return nil, "", fmt.Errorf("create invite link: %w", err)
	}
	return link, fmt.Sprintf("%s/invite/t/%s", s.inviteBase, link.Token), nil
}

func (s *groupService) UpdateGroup(ctx context.Context, groupID, name string) (*domain.GuestGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	group, err := s.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	group.Name = name
	group.UpdatedAt = time.Now()
	if err := s.store.Groups().Update(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}
