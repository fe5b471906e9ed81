package pipeline

import (
	"errors"
	"sync/atomic"
	"testing"
)

type poem struct {
	Index int
	Text  string
}

func TestRun(t *testing.T) {
	poems := []poem{
		{Index: 0, Text: "a"},
		{Index: 1, Text: "b"},
		{Index: 2, Text: "c"},
	}

	var called int32
	errs := Run(poems, 2, func(p poem) error {
		atomic.AddInt32(&called, 1)
		if p.Index == 1 {
			return errors.New("test error")
		}
		return nil
	})

	if called != int32(len(poems)) {
		t.Fatalf("expected %d calls, got %d", len(poems), called)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestRunEmpty(t *testing.T) {
	if errs := Run[poem](nil, 4, func(poem) error { return nil }); errs != nil {
		t.Fatalf("expected nil, got %v", errs)
	}
}

func TestRunDefaultWorkers(t *testing.T) {
	items := make([]int, 50)
	var sum int64
	errs := Run(items, 0, func(int) error {
		atomic.AddInt64(&sum, 1)
		return nil
	})
	if len(errs) != 0 || sum != 50 {
		t.Fatalf("unexpected result errs=%v sum=%d", errs, sum)
	}
}
