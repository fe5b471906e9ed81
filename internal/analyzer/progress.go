package analyzer

import (
	"fmt"

	"go.uber.org/zap"
)

// ProgressFn observes a running analysis. Percent never decreases within one call.
type ProgressFn func(percent int, stage, detail string)

const (
	StageCached   = "cached"
	StageComplete = "complete"
)

type stage struct {
	name   string
	weight int
}

// Stage weights sum to stagesTotal; the remainder up to 100 covers form detection,
// problem aggregation and melody suggestions.
var stages = []stage{
	{"preprocess", 5},
	{"phonetic", 25},
	{"stress", 10},
	{"meter", 10},
	{"rhyme", 15},
	{"sound", 10},
	{"singability", 10},
	{"emotion", 5},
	{"structure", 5},
}

const stagesTotal = 95

// reporter clamps percentages and isolates the observer: a panicking callback is logged
// and the pipeline carries on.
type reporter struct {
	on   ProgressFn
	log  *zap.Logger
	done int
}

func (r *reporter) progress(percent int, stage, detail string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.log.Debug("progress", zap.String("stage", stage), zap.Int("percent", percent), zap.String("detail", detail))
	if r.on == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("progress callback panicked", zap.String("stage", stage), zap.String("panic", fmt.Sprint(rec)))
		}
	}()
	r.on(percent, stage, detail)
}

func (r *reporter) start(i int) {
	r.progress(r.done, stages[i].name, "started")
}

func (r *reporter) finish(i int, detail string) {
	r.done += stages[i].weight
	r.progress(r.done, stages[i].name, detail)
}
