package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(title string, starts time.Time, approved bool) *core.Event {
	return &core.Event{
		BusinessName: "Harborview Hall",
		City:         "Harborview",
		Title:        title,
		Venue:        "Main Hall",
		Starts:       starts,
		Approved:     approved,
	}
}

func TestEventStore_ApprovedOrderedByStart(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 19, 0, 0, 0, time.UTC)
	_, err := stores.Events.PutEvents(ctx,
		testEvent("Jazz Night", base.Add(48*time.Hour), true),
		testEvent("Open Mic", base, true),
		testEvent("Quiz Night", base.Add(24*time.Hour), true),
		testEvent("Secret Show", base.Add(12*time.Hour), false),
	)
	require.NoError(t, err)

	events, err := stores.Events.ApprovedEvents(ctx, "Harborview")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Open Mic", events[0].Title)
	assert.Equal(t, "Quiz Night", events[1].Title)
	assert.Equal(t, "Jazz Night", events[2].Title)
}

func TestEventStore_Validation(t *testing.T) {
	stores := newTestStores(t)

	event := testEvent("", time.Now(), true)
	_, err := stores.Events.PutEvents(context.Background(), event)
	assert.ErrorIs(t, err, core.ErrInvalidEvent)
}
