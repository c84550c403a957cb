package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

func TestRSVPService_SubmitRsvp_Anonymous(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	newFixture := func(t *testing.T) (*fakeStore, *domain.Event, *domain.GuestGroup) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		event := store.seedEvent("Dinner", host.ID, future)
		group := store.seedGroup("Friends", host.ID, event.ID)
		return store, event, group
	}

	t.Run("creates unlinked record with per-status message", func(t *testing.T) {
		store, event, group := newFixture(t)
		svc := NewRSVPService(store)

		result, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name:  "Dana",
			Phone: "+1555",
			RSVP:  domain.RSVPAccepted,
			Count: 2,
		}, "")
		require.NoError(t, err)
		assert.True(t, result.IsWebSubmission)
		assert.False(t, result.AlreadySubmitted)
		assert.Contains(t, result.Message, "Your RSVP has been confirmed")

		got, err := store.Guests().GetUnlinked(ctx, event.ID, group.ID, "+1555")
		require.NoError(t, err)
		assert.False(t, got.Identity.Linked())
		assert.Equal(t, domain.RSVPAccepted, got.RSVP)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("second submission is rejected without overwrite", func(t *testing.T) {
		store, event, group := newFixture(t)
		svc := NewRSVPService(store)

		first, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPAccepted,
		}, "")
		require.NoError(t, err)

		second, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPDeclined,
		}, "")
		require.NoError(t, err)
		assert.True(t, second.AlreadySubmitted)
		assert.Equal(t, "You have already submitted your RSVP. Download our app to view or update it.", second.Message)
		assert.Equal(t, first.Guest.ID, second.Guest.ID)

		got, err := store.Guests().GetUnlinked(ctx, event.ID, group.ID, "+1555")
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPAccepted, got.RSVP)
	})

	t.Run("same phone may answer in another group", func(t *testing.T) {
		store, event, group := newFixture(t)
		other := store.seedGroup("Work", "x", event.ID)
		svc := NewRSVPService(store)

		_, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPAccepted,
		}, "")
		require.NoError(t, err)

		result, err := svc.SubmitRsvp(ctx, other.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPDeclined,
		}, "")
		require.NoError(t, err)
		assert.False(t, result.AlreadySubmitted)
	})

	t.Run("missing name or phone", func(t *testing.T) {
		store, _, group := newFixture(t)
		svc := NewRSVPService(store)

		_, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Phone: "+1555", RSVP: domain.RSVPAccepted,
		}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", RSVP: domain.RSVPAccepted,
		}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRSVPService_SubmitRsvp_Authenticated(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	t.Run("creates linked record and refreshes profile", func(t *testing.T) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		event := store.seedEvent("Dinner", host.ID, future)
		group := store.seedGroup("Friends", host.ID, event.ID)
		user := store.seedUser("+1555", "Dana", domain.VerificationVerified)
		svc := NewRSVPService(store)

		result, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name:  "Dana Updated",
			Email: "dana@example.com",
			RSVP:  domain.RSVPAccepted,
		}, user.ID)
		require.NoError(t, err)
		assert.False(t, result.IsWebSubmission)
		assert.True(t, result.Guest.Identity.Linked())
		assert.Equal(t, user.ID, result.Guest.Identity.UserID)

		refreshed, err := store.Users().GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dana Updated", refreshed.Name)
		assert.Equal(t, "dana@example.com", refreshed.Email)
	})

	t.Run("updates existing record in place", func(t *testing.T) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		event := store.seedEvent("Dinner", host.ID, future)
		group := store.seedGroup("Friends", host.ID, event.ID)
		user := store.seedUser("+1555", "Dana", domain.VerificationVerified)
		svc := NewRSVPService(store)

		first, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{RSVP: domain.RSVPMaybe}, user.ID)
		require.NoError(t, err)
		second, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{RSVP: domain.RSVPAccepted, Count: 4}, user.ID)
		require.NoError(t, err)

		assert.Equal(t, first.Guest.ID, second.Guest.ID)
		got, err := store.Guests().GetByEventAndUser(ctx, event.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPAccepted, got.RSVP)
		assert.Equal(t, 4, got.Count)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		event := store.seedEvent("Dinner", host.ID, future)
		group := store.seedGroup("Friends", host.ID, event.ID)
		svc := NewRSVPService(store)

		_, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{RSVP: domain.RSVPAccepted}, "missing")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRSVPService_SubmitRsvp_Window(t *testing.T) {
	ctx := context.Background()

	t.Run("started event rejects submissions", func(t *testing.T) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		event := store.seedEvent("Dinner", host.ID, time.Now().Add(-time.Hour))
		group := store.seedGroup("Friends", host.ID, event.ID)
		svc := NewRSVPService(store)

		_, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPAccepted,
		}, "")
		assert.ErrorIs(t, err, domain.ErrExpired)
	})

	t.Run("invalid rsvp value", func(t *testing.T) {
		store := newFakeStore()
		svc := NewRSVPService(store)
		_, err := svc.SubmitRsvp(ctx, "g1", domain.RsvpSubmission{RSVP: "definitely"}, "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("group without event", func(t *testing.T) {
		store := newFakeStore()
		host := store.seedUser("+1000", "Host", domain.VerificationVerified)
		group := store.seedGroup("Friends", host.ID, "")
		svc := NewRSVPService(store)

		_, err := svc.SubmitRsvp(ctx, group.ID, domain.RsvpSubmission{
			Name: "Dana", Phone: "+1555", RSVP: domain.RSVPAccepted,
		}, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRSVPService_GetInviteDetails(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Dinner", host.ID, future)
	group := store.seedGroup("Friends", host.ID, event.ID)
	guest := store.seedUser("+1555", "Dana", domain.VerificationVerified)
	existing := domain.NewGuestRecord(event.ID, group.ID, domain.LinkedIdentity(guest.ID), time.Now())
	existing.RSVP = domain.RSVPAccepted
	require.NoError(t, store.Guests().Create(ctx, existing))

	svc := NewRSVPService(store)

	t.Run("anonymous viewer gets event and group only", func(t *testing.T) {
		details, err := svc.GetInviteDetails(ctx, group.ID, "")
		require.NoError(t, err)
		assert.Equal(t, event.ID, details.Event.ID)
		assert.Equal(t, group.ID, details.Group.ID)
		assert.Nil(t, details.UserContext)
	})

	t.Run("authenticated viewer gets context", func(t *testing.T) {
		details, err := svc.GetInviteDetails(ctx, group.ID, guest.ID)
		require.NoError(t, err)
		require.NotNil(t, details.UserContext)
		assert.False(t, details.UserContext.IsHostOrCoHost)
		require.NotNil(t, details.UserContext.ExistingRsvp)
		assert.Equal(t, domain.RSVPAccepted, details.UserContext.ExistingRsvp.RSVP)
	})

	t.Run("host viewer is flagged", func(t *testing.T) {
		details, err := svc.GetInviteDetails(ctx, group.ID, host.ID)
		require.NoError(t, err)
		require.NotNil(t, details.UserContext)
		assert.True(t, details.UserContext.IsHostOrCoHost)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.GetInviteDetails(ctx, "missing", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRSVPService_GetInviteDetailsByToken(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Dinner", host.ID, future)
	group := store.seedGroup("Friends", host.ID, event.ID)
	svc := NewRSVPService(store)

	link := &domain.InviteLink{GroupID: group.ID, Token: "tok-123", CreatedAt: time.Now()}
	require.NoError(t, store.Groups().CreateInviteLink(ctx, link))

	t.Run("token resolves to the group's invite", func(t *testing.T) {
		details, err := svc.GetInviteDetailsByToken(ctx, "tok-123", "")
		require.NoError(t, err)
		assert.Equal(t, group.ID, details.Group.ID)
		assert.Equal(t, event.ID, details.Event.ID)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.GetInviteDetailsByToken(ctx, "tok-nope", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRSVPService_GetGroupRsvpStatus(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Dinner", host.ID, future)
	group := store.seedGroup("Friends", host.ID, event.ID)
	svc := NewRSVPService(store)

	t.Run("finds unlinked web submission", func(t *testing.T) {
		seedUnlinkedGuest(t, store, event.ID, group.ID, "Web Dana", "+1777", domain.RSVPMaybe)
		got, err := svc.GetGroupRsvpStatus(ctx, group.ID, "+1777")
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPMaybe, got.RSVP)
		assert.False(t, got.Identity.Linked())
	})

	t.Run("prefers linked record for account holder", func(t *testing.T) {
		user := store.seedUser("+1888", "App Dana", domain.VerificationVerified)
		g := domain.NewGuestRecord(event.ID, group.ID, domain.LinkedIdentity(user.ID), time.Now())
		g.RSVP = domain.RSVPAccepted
		require.NoError(t, store.Guests().Create(ctx, g))

		got, err := svc.GetGroupRsvpStatus(ctx, group.ID, "+1888")
		require.NoError(t, err)
		assert.True(t, got.Identity.Linked())
		assert.Equal(t, domain.RSVPAccepted, got.RSVP)
	})

	t.Run("no response recorded", func(t *testing.T) {
		_, err := svc.GetGroupRsvpStatus(ctx, group.ID, "+1999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRSVPService_DirectRsvps(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Dinner", host.ID, future)
	user := store.seedUser("+1555", "Dana", domain.VerificationVerified)
	svc := NewRSVPService(store)

	t.Run("upsert creates then updates", func(t *testing.T) {
		first, err := svc.UpsertRsvp(ctx, user.ID, event.ID, domain.RSVPMaybe)
		require.NoError(t, err)
		second, err := svc.UpsertRsvp(ctx, user.ID, event.ID, domain.RSVPAccepted)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		status, err := svc.GetRsvpStatus(ctx, user.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPAccepted, status)
	})

	t.Run("cancel resets to no_response", func(t *testing.T) {
		got, err := svc.CancelRsvp(ctx, user.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RSVPNoResponse, got.RSVP)
	})

	t.Run("list user rsvps", func(t *testing.T) {
		records, err := svc.ListUserRsvps(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("upsert after start is rejected", func(t *testing.T) {
		past := store.seedEvent("Past", host.ID, time.Now().Add(-time.Hour))
		_, err := svc.UpsertRsvp(ctx, user.ID, past.ID, domain.RSVPAccepted)
		assert.ErrorIs(t, err, domain.ErrExpired)
	})
}
