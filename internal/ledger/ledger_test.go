package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotAddAndHas(t *testing.T) {
	s := NewSnapshot(nil, time.Now())

	s.Add("https://new.ixbk.net/article/1")
	s.Add("https://new.ixbk.net/article/2")
	s.Add("https://new.ixbk.net/article/1")
	s.Add("")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("https://new.ixbk.net/article/1"))
	assert.False(t, s.Has("https://new.ixbk.net/article/3"))
	assert.Equal(t, []string{
		"https://new.ixbk.net/article/1",
		"https://new.ixbk.net/article/2",
	}, s.Links())
}

func TestNewSnapshotDropsDuplicates(t *testing.T) {
	s := NewSnapshot([]string{"a", "b", "a", "c", "b"}, time.Now())
	assert.Equal(t, []string{"a", "b", "c"}, s.Links())
}

func TestSnapshotTruncateEvictsOldest(t *testing.T) {
	s := NewSnapshot(nil, time.Now())
	for i := 0; i < 810; i++ {
		s.Add(fmt.Sprintf("https://new.ixbk.net/article/%d", i))
	}

	s.Truncate(800)

	assert.Equal(t, 800, s.Len())
	assert.False(t, s.Has("https://new.ixbk.net/article/9"))
	assert.True(t, s.Has("https://new.ixbk.net/article/10"))
	assert.True(t, s.Has("https://new.ixbk.net/article/809"))
	assert.Equal(t, "https://new.ixbk.net/article/10", s.Links()[0])
}

func TestSnapshotTruncateNoop(t *testing.T) {
	s := NewSnapshot([]string{"a", "b"}, time.Now())

	s.Truncate(800)
	assert.Equal(t, 2, s.Len())

	s.Truncate(0)
	assert.Equal(t, 2, s.Len())
}

func TestSnapshotRecordRoundTrip(t *testing.T) {
	at := time.UnixMilli(1760000000000)
	s := NewSnapshot([]string{"a", "b"}, at)

	got := fromRecord(toRecord(s))
	assert.Equal(t, s.Links(), got.Links())
	assert.True(t, got.LastUpdate().Equal(at))
}

func TestEmptyStoresReportZeroLastUpdate(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore()
	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.LastUpdate().IsZero())

	// Reset leaves the ledger looking never-written too
	snap.Add("a")
	snap.Touch(time.Now())
	require.NoError(t, store.Save(ctx, snap))
	require.NoError(t, store.Reset(ctx))

	snap, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, snap.LastUpdate().IsZero())
}

func TestRecordZeroLastUpdateRoundTrip(t *testing.T) {
	s := NewSnapshot(nil, time.Time{})

	r := toRecord(s)
	assert.Equal(t, int64(0), r.LastUpdate)
	assert.True(t, fromRecord(r).LastUpdate().IsZero())
}

func TestToRecordEmptyLinks(t *testing.T) {
	r := toRecord(NewSnapshot(nil, time.Now()))
	// Marshals as [] rather than null
	require.NotNil(t, r.Links)
	assert.Empty(t, r.Links)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())

	snap.Add("https://new.ixbk.net/article/1")
	at := time.Now()
	snap.Touch(at)
	require.NoError(t, store.Save(ctx, snap))

	// Mutating the saved snapshot must not leak into the store
	snap.Add("https://new.ixbk.net/article/2")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://new.ixbk.net/article/1"}, got.Links())
	assert.Equal(t, at.UnixMilli(), got.LastUpdate().UnixMilli())

	require.NoError(t, store.Reset(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

// failingStore simulates an unavailable durable store.
type failingStore struct{}

func (failingStore) Load(ctx context.Context) (*Snapshot, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Save(ctx context.Context, snap *Snapshot) error {
	return errors.New("connection refused")
}

func (failingStore) Reset(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestFallbackStoreSurvivesPrimaryOutage(t *testing.T) {
	ctx := context.Background()
	store := NewFallbackStore(failingStore{})

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())

	snap.Add("https://new.ixbk.net/article/1")
	require.NoError(t, store.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://new.ixbk.net/article/1"}, got.Links())

	require.NoError(t, store.Reset(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestFallbackStorePrefersPrimary(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	store := NewFallbackStore(primary)

	snap := NewSnapshot([]string{"a"}, time.Now())
	require.NoError(t, primary.Save(ctx, snap))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Links())
}
