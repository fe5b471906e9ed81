package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poemlab/internal/pipeline"
)

type BatchItem struct {
	Name string
	Text string
}

type BatchResult struct {
	Name     string       `json:"name"`
	Analysis PoemAnalysis `json:"analysis"`
	Skipped  bool         `json:"skipped,omitempty"`
}

// AnalyzeBatch analyzes items on a worker pool sharing the analyzer's cache. Results keep
// the input order. Once ctx is done, remaining items are skipped and reported in errs.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, items []BatchItem, workers int, opts Options) (results []BatchResult, errs []error) {
	type job struct {
		index int
		item  BatchItem
	}
	jobs := make([]job, len(items))
	for i, it := range items {
		jobs[i] = job{i, it}
	}
	results = make([]BatchResult, len(items))
	opts.OnProgress = nil

	errs = pipeline.Run(jobs, workers, func(j job) error {
		results[j.index].Name = j.item.Name
		if err := ctx.Err(); err != nil {
			results[j.index].Skipped = true
			return fmt.Errorf("%s: %w", j.item.Name, err)
		}
		results[j.index].Analysis = a.Analyze(ctx, j.item.Text, opts)
		a.log.Debug("batch item analyzed",
			zap.String("name", j.item.Name),
			zap.String("form", string(results[j.index].Analysis.Form.Type)))
		return nil
	})
	return results, errs
}
