package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manas-foundation/manas-admin/internal/database"
	"github.com/manas-foundation/manas-admin/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "audit.sqlite"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seed(t *testing.T, store *Store, decision string, createdAt time.Time) *models.GateEvent {
	t.Helper()

	ev := &models.GateEvent{
		Decision: decision,
		Email:    "admin@x.org",
		Path:     "/dashboard",
	}
	ev.CreatedAt = createdAt
	require.NoError(t, store.Record(context.Background(), ev))
	require.NotEmpty(t, ev.ID)
	return ev
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := NewStore(newTestDB(t))
	base := time.Now().UTC().Add(-time.Hour)

	seed(t, store, "authorized", base)
	seed(t, store, "expired", base.Add(time.Minute))
	newest := seed(t, store, "unauthorized", base.Add(2*time.Minute))

	events, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, newest.ID, events[0].ID)
	assert.Equal(t, "unauthorized", events[0].Decision)
	assert.Equal(t, "authorized", events[2].Decision)

	events, err = store.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestStore_Get(t *testing.T) {
	store := NewStore(newTestDB(t))
	ev := seed(t, store, "malformed", time.Now().UTC())

	got, err := store.Get(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "malformed", got.Decision)

	_, err = store.Get(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRetention_RunOnce(t *testing.T) {
	store := NewStore(newTestDB(t))
	now := time.Now().UTC()

	seed(t, store, "authorized", now.Add(-48*time.Hour))
	seed(t, store, "expired", now.Add(-25*time.Hour))
	kept := seed(t, store, "unauthorized", now.Add(-time.Hour))

	r, err := NewRetention(store, "@hourly", 24*time.Hour, zerolog.Nop())
	require.NoError(t, err)
	r.now = func() time.Time { return now }

	assert.Equal(t, int64(2), r.RunOnce(context.Background()))

	events, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, kept.ID, events[0].ID)
}

func TestNewRetention_Validation(t *testing.T) {
	store := NewStore(newTestDB(t))

	_, err := NewRetention(store, "not a schedule", time.Hour, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewRetention(store, "@hourly", 0, zerolog.Nop())
	assert.Error(t, err)

	r, err := NewRetention(store, "0 3 * * *", time.Hour, zerolog.Nop())
	require.NoError(t, err)
	r.Start()
	r.Stop()
}
