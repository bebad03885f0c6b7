package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/concierge/session"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := NewStore(client, WithTTL(time.Minute))
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := session.NewState("s1", "Harborview")
	state = session.Update(state, "greek food", "Try Taverna Mykonos.", []string{"Taverna Mykonos"})
	require.NoError(t, store.Put(ctx, state))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state.ID, got.ID)
	assert.Equal(t, state.ShownBusinesses, got.ShownBusinesses)
	assert.Equal(t, state.Phase, got.Phase)
	assert.Equal(t, state.MessageCount, got.MessageCount)
}

func TestStore_MissingSession(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, session.NewState("s1", "Harborview")))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestStore_TTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, session.NewState("s1", "Harborview")))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
