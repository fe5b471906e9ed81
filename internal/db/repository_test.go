package db

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "poem-analysis:missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	for _, k := range []string{"poem-analysis:b", "poem-analysis:a", "other:c", "poem_analysis:d"} {
		if err := store.Set(ctx, k, `{"v":1}`); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	if err := store.Set(ctx, "poem-analysis:a", `{"v":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, ok, err := store.Get(ctx, "poem-analysis:a")
	if err != nil || !ok || value != `{"v":2}` {
		t.Fatalf("unexpected get result %q %v %v", value, ok, err)
	}

	keys, err := store.Keys(ctx, "poem-analysis:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := []string{"poem-analysis:a", "poem-analysis:b"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}

	if err := store.Remove(ctx, "poem-analysis:b"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.RemoveMany(ctx, []string{"other:c", "poem_analysis:d"}); err != nil {
		t.Fatalf("remove many: %v", err)
	}

	rows, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestKeysPrefixIsCaseSensitive(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	for _, k := range []string{"poem-analysis:a", "POEM-ANALYSIS:b", "Poem-Analysis:c", "poem-analysis"} {
		if err := store.Set(ctx, k, "{}"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	keys, err := store.Keys(ctx, "poem-analysis:")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := []string{"poem-analysis:a"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	if n, err := store.Count(ctx); err != nil || n != 4 {
		t.Fatalf("expected 4 rows, got %d (%v)", n, err)
	}
}
