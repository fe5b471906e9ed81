package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultPrefix = "poem-analysis:"
	DefaultTTL    = 24 * time.Hour
)

// Entry is the persisted record. Timestamp is unix milliseconds.
type Entry[T any] struct {
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
	Analysis  T      `json:"analysis"`
}

// AnalysisCache stores analyses of type T under prefix+hash in a Store.
type AnalysisCache[T any] struct {
	store  Store
	prefix string
	now    func() time.Time
}

func NewAnalysisCache[T any](store Store, prefix string) *AnalysisCache[T] {
	if store == nil {
		store = NopStore{}
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &AnalysisCache[T]{store: store, prefix: prefix, now: time.Now}
}

func (c *AnalysisCache[T]) Key(hash string) string { return c.prefix + hash }

// Get returns the cached analysis for hash. Expired or unparseable entries are removed
// and reported as ErrNotFound.
func (c *AnalysisCache[T]) Get(ctx context.Context, hash string, ttl time.Duration) (T, error) {
	var zero T
	key := c.Key(hash)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return zero, ErrNotFound
	}
	entry, err := decodeEntry[T](raw)
	if err != nil || c.expired(entry.Timestamp, ttl) {
		if rmErr := c.store.Remove(ctx, key); rmErr != nil {
			return zero, fmt.Errorf("remove stale %s: %w", key, rmErr)
		}
		return zero, ErrNotFound
	}
	return entry.Analysis, nil
}

// Put writes the analysis. When the write fails the cache is swept once before the
// error is returned, so a full store gets room back.
func (c *AnalysisCache[T]) Put(ctx context.Context, hash string, analysis T, ttl time.Duration) error {
	raw, err := json.Marshal(Entry[T]{Hash: hash, Timestamp: c.now().UnixMilli(), Analysis: analysis})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := c.store.Set(ctx, c.Key(hash), string(raw)); err != nil {
		removed, sweepErr := c.Sweep(ctx, ttl)
		if sweepErr != nil {
			return fmt.Errorf("write entry: %w (sweep failed: %v)", err, sweepErr)
		}
		return fmt.Errorf("write entry (swept %d): %w", removed, err)
	}
	return nil
}

// Sweep removes every prefixed entry older than ttl or whose payload fails to parse.
func (c *AnalysisCache[T]) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	keys, err := c.store.Keys(ctx, c.prefix)
	if err != nil {
		return 0, fmt.Errorf("list keys: %w", err)
	}
	var stale []string
	for _, key := range keys {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		entry, err := decodeEntry[T](raw)
		if err != nil || c.expired(entry.Timestamp, ttl) {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if br, ok := c.store.(batchRemover); ok {
		if err := br.RemoveMany(ctx, stale); err != nil {
			return 0, err
		}
		return len(stale), nil
	}
	for i, key := range stale {
		if err := c.store.Remove(ctx, key); err != nil {
			return i, err
		}
	}
	return len(stale), nil
}

func (c *AnalysisCache[T]) expired(ts int64, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return c.now().Sub(time.UnixMilli(ts)) > ttl
}

func decodeEntry[T any](raw string) (Entry[T], error) {
	var e Entry[T]
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return e, err
	}
	if e.Hash == "" {
		return e, fmt.Errorf("entry without hash")
	}
	return e, nil
}
