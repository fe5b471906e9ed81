package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Lines int    `json:"lines"`
	Form  string `json:"form"`
}

func TestMemoryStoreKeys(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "p:b", "2"))
	require.NoError(t, s.Set(ctx, "p:a", "1"))
	require.NoError(t, s.Set(ctx, "q:c", "3"))

	keys, err := s.Keys(ctx, "p:")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:a", "p:b"}, keys)

	require.NoError(t, s.Remove(ctx, "p:a"))
	_, ok, err := s.Get(ctx, "p:a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "poem-analysis:ab/cd", `{"x":1}`))
	require.NoError(t, s.Set(ctx, "other", "y"))

	v, ok, err := s.Get(ctx, "poem-analysis:ab/cd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"x":1}`, v)

	keys, err := s.Keys(ctx, "poem-analysis:")
	require.NoError(t, err)
	assert.Equal(t, []string{"poem-analysis:ab/cd"}, keys)

	require.NoError(t, s.Remove(ctx, "poem-analysis:ab/cd"))
	require.NoError(t, s.Remove(ctx, "poem-analysis:ab/cd"))
	_, ok, err = s.Get(ctx, "poem-analysis:ab/cd")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNopStoreAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	c := NewAnalysisCache[sample](NopStore{}, "")
	require.NoError(t, c.Put(ctx, "h", sample{Lines: 3}, time.Hour))
	_, err := c.Get(ctx, "h", time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalysisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalysisCache[sample](store, "")

	_, err := c.Get(ctx, "abc", DefaultTTL)
	assert.ErrorIs(t, err, ErrNotFound)

	want := sample{Lines: 14, Form: "shakespearean_sonnet"}
	require.NoError(t, c.Put(ctx, "abc", want, DefaultTTL))

	got, err := c.Get(ctx, "abc", DefaultTTL)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	keys, _ := store.Keys(ctx, DefaultPrefix)
	assert.Equal(t, []string{"poem-analysis:abc"}, keys)
}

func TestAnalysisCacheExpiredEntryIsRemoved(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalysisCache[sample](store, "")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, "old", sample{Lines: 1}, time.Hour))

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err := c.Get(ctx, "old", time.Hour)
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok, _ := store.Get(ctx, c.Key("old"))
	assert.False(t, ok)
}

func TestAnalysisCacheCorruptEntryIsRemoved(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalysisCache[sample](store, "")
	require.NoError(t, store.Set(ctx, c.Key("bad"), "{not json"))

	_, err := c.Get(ctx, "bad", DefaultTTL)
	assert.ErrorIs(t, err, ErrNotFound)
	_, ok, _ := store.Get(ctx, c.Key("bad"))
	assert.False(t, ok)
}

func TestAnalysisCacheSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewAnalysisCache[sample](store, "")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, "old", sample{}, time.Hour))
	c.now = func() time.Time { return base.Add(90 * time.Minute) }
	require.NoError(t, c.Put(ctx, "fresh", sample{}, time.Hour))
	require.NoError(t, store.Set(ctx, c.Key("junk"), "??"))
	require.NoError(t, store.Set(ctx, "unrelated", "??"))

	removed, err := c.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, _ := store.Keys(ctx, "")
	assert.Equal(t, []string{"poem-analysis:fresh", "unrelated"}, keys)
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestAnalysisCachePutFailureSweeps(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	require.NoError(t, mem.Set(ctx, DefaultPrefix+"junk", "??"))
	c := NewAnalysisCache[sample](failingStore{mem}, "")

	err := c.Put(ctx, "h", sample{}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	keys, _ := mem.Keys(ctx, DefaultPrefix)
	assert.Empty(t, keys)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client, time.Hour)

	mock.ExpectSet("poem-analysis:a", "v", time.Hour).SetVal("OK")
	require.NoError(t, s.Set(ctx, "poem-analysis:a", "v"))

	mock.ExpectGet("poem-analysis:a").SetVal("v")
	v, ok, err := s.Get(ctx, "poem-analysis:a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	mock.ExpectGet("poem-analysis:missing").RedisNil()
	_, ok, err = s.Get(ctx, "poem-analysis:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectScan(0, "poem-analysis:*", scanBatch).SetVal([]string{"poem-analysis:a"}, 7)
	mock.ExpectScan(7, "poem-analysis:*", scanBatch).SetVal([]string{"poem-analysis:b"}, 0)
	keys, err := s.Keys(ctx, "poem-analysis:")
	require.NoError(t, err)
	assert.Equal(t, []string{"poem-analysis:a", "poem-analysis:b"}, keys)

	mock.ExpectDel("poem-analysis:a", "poem-analysis:b").SetVal(2)
	require.NoError(t, s.RemoveMany(ctx, keys))

	mock.ExpectGet("poem-analysis:down").SetErr(errors.New("connection refused"))
	_, _, err = s.Get(ctx, "poem-analysis:down")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
