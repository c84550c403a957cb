package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventrsvp/internal/domain"
)

func seedSubEvent(t *testing.T, svc domain.SubEventService, eventID, hostID string, startsAt time.Time) *domain.SubEvent {
	t.Helper()
	sub := &domain.SubEvent{
		EventID:  eventID,
		Title:    "Ceremony",
		Location: "Garden",
		Address:  "1 Park Lane",
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(2 * time.Hour),
	}
	require.NoError(t, svc.CreateSubEvent(context.Background(), sub, nil, hostID))
	return sub
}

func TestSubEventService_CreateSubEvent(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	stranger := store.seedUser("+1001", "Stranger", domain.VerificationVerified)
	event := store.seedEvent("Wedding", host.ID, future)
	otherEvent := store.seedEvent("Brunch", host.ID, future)
	svc := NewSubEventService(store)

	guest := domain.NewGuestRecord(event.ID, "", domain.UnlinkedIdentity("Dana", "+1555", ""), time.Now())
	require.NoError(t, store.Guests().Create(ctx, guest))
	foreignGuest := domain.NewGuestRecord(otherEvent.ID, "", domain.UnlinkedIdentity("Kim", "+1556", ""), time.Now())
	require.NoError(t, store.Guests().Create(ctx, foreignGuest))

	t.Run("creates with initial guests", func(t *testing.T) {
		sub := &domain.SubEvent{
			EventID:  event.ID,
			Title:    "Reception",
			Location: "Hall",
			Address:  "2 Main St",
			StartsAt: future,
			EndsAt:   future.Add(4 * time.Hour),
		}
		require.NoError(t, svc.CreateSubEvent(ctx, sub, []string{guest.ID}, host.ID))
		assert.NotEmpty(t, sub.ID)

		guests, err := svc.ListGuests(ctx, sub.ID)
		require.NoError(t, err)
		require.Len(t, guests, 1)
		assert.Equal(t, guest.ID, guests[0].ID)
	})

	t.Run("non-host forbidden", func(t *testing.T) {
		sub := &domain.SubEvent{
			EventID:  event.ID,
			Title:    "After-party",
			Location: "Bar",
			Address:  "3 Side St",
			StartsAt: future,
			EndsAt:   future.Add(time.Hour),
		}
		err := svc.CreateSubEvent(ctx, sub, nil, stranger.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("guest from another event rejected", func(t *testing.T) {
		sub := &domain.SubEvent{
			EventID:  event.ID,
			Title:    "Toast",
			Location: "Terrace",
			Address:  "4 High St",
			StartsAt: future,
			EndsAt:   future.Add(time.Hour),
		}
		err := svc.CreateSubEvent(ctx, sub, []string{foreignGuest.ID}, host.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		tests := []struct {
			name string
			sub  *domain.SubEvent
		}{
			{"no title", &domain.SubEvent{EventID: event.ID, Location: "x", Address: "y", StartsAt: future, EndsAt: future.Add(time.Hour)}},
			{"no location", &domain.SubEvent{EventID: event.ID, Title: "T", Address: "y", StartsAt: future, EndsAt: future.Add(time.Hour)}},
			{"no address", &domain.SubEvent{EventID: event.ID, Title: "T", Location: "x", StartsAt: future, EndsAt: future.Add(time.Hour)}},
			{"no times", &domain.SubEvent{EventID: event.ID, Title: "T", Location: "x", Address: "y"}},
			{"ends before it starts", &domain.SubEvent{EventID: event.ID, Title: "T", Location: "x", Address: "y", StartsAt: future, EndsAt: future.Add(-time.Hour)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := svc.CreateSubEvent(ctx, tt.sub, nil, host.ID)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})

	t.Run("unknown parent event", func(t *testing.T) {
		sub := &domain.SubEvent{
			EventID:  "missing",
			Title:    "T",
			Location: "x",
			Address:  "y",
			StartsAt: future,
			EndsAt:   future.Add(time.Hour),
		}
		err := svc.CreateSubEvent(ctx, sub, nil, host.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubEventService_ListSubEvents(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Wedding", host.ID, future)
	svc := NewSubEventService(store)

	late := seedSubEvent(t, svc, event.ID, host.ID, future.Add(6*time.Hour))
	early := seedSubEvent(t, svc, event.ID, host.ID, future)

	subs, err := svc.ListSubEvents(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, early.ID, subs[0].ID)
	assert.Equal(t, late.ID, subs[1].ID)
}

func TestSubEventService_UpdateSubEvent(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	coHost := store.seedUser("+1001", "CoHost", domain.VerificationVerified)
	stranger := store.seedUser("+1002", "Stranger", domain.VerificationVerified)
	event := store.seedEvent("Wedding", host.ID, future)
	require.NoError(t, store.Events().AddCoHost(ctx, event.ID, coHost.ID))
	svc := NewSubEventService(store)

	sub := seedSubEvent(t, svc, event.ID, host.ID, future)

	t.Run("co-host updates", func(t *testing.T) {
		sub.Title = "Evening Ceremony"
		require.NoError(t, svc.UpdateSubEvent(ctx, sub, coHost.ID))

		got, err := svc.GetSubEvent(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, "Evening Ceremony", got.Title)
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		err := svc.UpdateSubEvent(ctx, sub, stranger.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown sub-event", func(t *testing.T) {
		missing := *sub
		missing.ID = "missing"
		err := svc.UpdateSubEvent(ctx, &missing, host.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubEventService_DeleteSubEvent(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	stranger := store.seedUser("+1001", "Stranger", domain.VerificationVerified)
	event := store.seedEvent("Wedding", host.ID, future)
	svc := NewSubEventService(store)

	sub := seedSubEvent(t, svc, event.ID, host.ID, future)

	t.Run("stranger forbidden", func(t *testing.T) {
		err := svc.DeleteSubEvent(ctx, sub.ID, stranger.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("host deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteSubEvent(ctx, sub.ID, host.ID))
		_, err := svc.GetSubEvent(ctx, sub.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSubEventService_Guests(t *testing.T) {
	ctx := context.Background()
	future := time.Now().Add(48 * time.Hour)

	store := newFakeStore()
	host := store.seedUser("+1000", "Host", domain.VerificationVerified)
	event := store.seedEvent("Wedding", host.ID, future)
	svc := NewSubEventService(store)

	sub := seedSubEvent(t, svc, event.ID, host.ID, future)
	guest := domain.NewGuestRecord(event.ID, "", domain.UnlinkedIdentity("Dana", "+1555", ""), time.Now())
	require.NoError(t, store.Guests().Create(ctx, guest))

	t.Run("assign and list", func(t *testing.T) {
		require.NoError(t, svc.AddGuest(ctx, sub.ID, guest.ID, host.ID))
		guests, err := svc.ListGuests(ctx, sub.ID)
		require.NoError(t, err)
		require.Len(t, guests, 1)
		assert.Equal(t, guest.ID, guests[0].ID)
	})

	t.Run("duplicate assignment", func(t *testing.T) {
		err := svc.AddGuest(ctx, sub.ID, guest.ID, host.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("unassign keeps the guest record", func(t *testing.T) {
		require.NoError(t, svc.RemoveGuest(ctx, sub.ID, guest.ID, host.ID))
		guests, err := svc.ListGuests(ctx, sub.ID)
		require.NoError(t, err)
		assert.Empty(t, guests)

		_, err = store.Guests().GetByID(ctx, guest.ID)
		require.NoError(t, err)
	})

	t.Run("unassigning again fails", func(t *testing.T) {
		err := svc.RemoveGuest(ctx, sub.ID, guest.ID, host.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown guest", func(t *testing.T) {
		err := svc.AddGuest(ctx, sub.ID, "missing", host.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
