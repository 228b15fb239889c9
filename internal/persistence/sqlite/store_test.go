package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/testfixtures"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestStore_AvailabilityRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.LoadAvailability(ctx, "user-1")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	record := testfixtures.NewAvailabilityRecord("user-1",
		testfixtures.WithUnavailableDay("2024-06-10"),
		testfixtures.WithSlot("2024-06-10", "09:00", "12:00", "Vacation",
			&availability.RecurrenceRule{Type: availability.RecurrenceWeekly, EndDate: "2024-08-31"}),
	)
	require.NoError(t, store.SaveAvailability(ctx, record))

	loaded, err := store.LoadAvailability(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	// Saving the unmodified loaded record keeps persisted state identical.
	require.NoError(t, store.SaveAvailability(ctx, loaded))
	again, err := store.LoadAvailability(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestStore_SaveReplacesRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := availability.NewRecord("user-1")
	first.Dates = []availability.DateAvailability{
		{Date: "2024-06-10", Available: false, StartTime: "09:00", EndTime: "17:00"},
	}
	require.NoError(t, store.SaveAvailability(ctx, first))

	second := availability.NewRecord("user-1")
	require.NoError(t, store.SaveAvailability(ctx, second))

	loaded, err := store.LoadAvailability(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Dates, "save must replace, not merge")
}

func TestStore_SubscribeFiresOnSave(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var seen []string
	unsubscribe := store.Subscribe(func(userID string) { seen = append(seen, userID) })

	require.NoError(t, store.SaveAvailability(ctx, availability.NewRecord("user-1")))
	assert.Equal(t, []string{"user-1"}, seen)

	unsubscribe()
	require.NoError(t, store.SaveAvailability(ctx, availability.NewRecord("user-2")))
	assert.Len(t, seen, 1)
}

func TestStore_EventLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	event := persistence.Event{
		ID:          "evt-1",
		Title:       "Design review",
		Description: "Spring campaign assets",
		Start:       start,
		End:         start.Add(time.Hour),
		Location:    "Studio B",
		Type:        "meeting",
		Status:      "confirmed",
		CreatedBy:   "user-1",
		Attendees:   []string{"user-1", "user-2"},
		AssignedTo:  []string{"user-1", "user-2"},
		Priority:    "high",
		IsRequired:  true,
		CreatedAt:   start,
		UpdatedAt:   start,
	}
	require.NoError(t, store.CreateEvent(ctx, event))
	require.ErrorIs(t, store.CreateEvent(ctx, event), persistence.ErrDuplicate)

	loaded, err := store.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, event, loaded)

	listed, err := store.ListEvents(ctx, persistence.EventFilter{AttendeeID: "user-2"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "evt-1", listed[0].ID)

	listed, err = store.ListEvents(ctx, persistence.EventFilter{AttendeeID: "user-3"})
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, store.DeleteEvent(ctx, "evt-1"))
	_, err = store.GetEvent(ctx, "evt-1")
	require.ErrorIs(t, err, persistence.ErrNotFound)
	require.ErrorIs(t, store.DeleteEvent(ctx, "evt-1"), persistence.ErrNotFound)
}

func TestStore_EventWindowFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"evt-1", "evt-2", "evt-3"} {
		start := base.AddDate(0, 0, i*7)
		require.NoError(t, store.CreateEvent(ctx, persistence.Event{
			ID: id, Title: id, Start: start, End: start.Add(time.Hour),
			Type: "meeting", Status: "confirmed", CreatedBy: "user-1",
			Attendees: []string{"user-1"}, AssignedTo: []string{"user-1"},
			CreatedAt: base, UpdatedAt: base,
		}))
	}

	after := base.AddDate(0, 0, 5)
	before := base.AddDate(0, 0, 10)
	listed, err := store.ListEvents(ctx, persistence.EventFilter{StartsAfter: &after, EndsBefore: &before})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "evt-2", listed[0].ID)
}

func TestStore_Notifications(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateNotification(ctx, persistence.Notification{
		ID: "n-1", UserID: "user-1", EventID: "evt-1", Title: "Meeting invitation",
		Message: "Design review", CreatedAt: base,
	}))
	require.NoError(t, store.CreateNotification(ctx, persistence.Notification{
		ID: "n-2", UserID: "user-1", EventID: "evt-2", Title: "Meeting invitation",
		Message: "Retro", CreatedAt: base.Add(time.Minute),
	}))

	listed, err := store.ListNotificationsForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "n-2", listed[0].ID)

	listed, err = store.ListNotificationsForUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestStore_UserDirectory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateUser(ctx, persistence.User{
		ID: "user-1", Email: "alex@studio.example", DisplayName: "Alex", Role: "designer",
		CreatedAt: now, UpdatedAt: now,
	}))
	require.ErrorIs(t, store.CreateUser(ctx, persistence.User{
		ID: "user-1", Email: "other@studio.example", DisplayName: "Other",
		CreatedAt: now, UpdatedAt: now,
	}), persistence.ErrDuplicate)
	require.ErrorIs(t, store.CreateUser(ctx, persistence.User{
		ID: "user-2", Email: "alex@studio.example", DisplayName: "Alex Clone",
		CreatedAt: now, UpdatedAt: now,
	}), persistence.ErrDuplicate, "reused email must be rejected")

	loaded, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", loaded.DisplayName)

	listed, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	require.NoError(t, store.DeleteUser(ctx, "user-1"))
	_, err = store.GetUser(ctx, "user-1")
	require.ErrorIs(t, err, persistence.ErrNotFound)
}
