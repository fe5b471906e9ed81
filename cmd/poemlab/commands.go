package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"poemlab/internal/analyzer"
	"poemlab/internal/cache"
	"poemlab/internal/form"
	"poemlab/internal/ingest"
	"poemlab/internal/melody"
	"poemlab/internal/rhyme"
	"poemlab/internal/server"
	"poemlab/internal/workspace"
)

type AnalyzeCmd struct {
	Path     string `arg:"" help:"Poem file (.txt, .md, .docx, .pdf) or - for stdin."`
	JSON     bool   `name:"json" help:"Print the full analysis as JSON."`
	Loose    bool   `name:"loose" help:"Let assonance and consonance share rhyme letters."`
	NoCache  bool   `name:"no-cache" help:"Skip the analysis cache."`
	Progress bool   `name:"progress" short:"p" help:"Print stage progress to stderr."`
	Save     bool   `name:"save" help:"Save the report in the workspace."`
}

func (c *AnalyzeCmd) Run(app *App) error {
	doc, err := readPoem(c.Path)
	if err != nil {
		return err
	}
	a, err := app.newAnalyzer(analyzer.WithRhymeOptions(rhyme.Options{Loose: c.Loose}))
	if err != nil {
		return err
	}
	opts := analyzer.Options{NoCache: c.NoCache}
	if c.Progress {
		opts.OnProgress = func(percent int, stage, detail string) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %-12s %s\n", percent, stage, detail)
		}
	}
	out := a.Analyze(context.Background(), doc.Text, opts)

	if c.Save {
		if app.workspace == "" {
			return fmt.Errorf("--save needs a workspace (--workspace or POEMLAB_WORKSPACE)")
		}
		path, err := workspace.SaveReport(app.workspace, workspace.Report{
			Title: doc.Title, Source: doc.Path, Hash: out.Meta.Hash, Analysis: out,
		})
		if err != nil {
			return err
		}
		app.log.Info("report saved", zap.String("path", path))
	}

	if c.JSON {
		return writeJSON(os.Stdout, out)
	}
	printSummary(os.Stdout, doc.Title, out)
	return nil
}

type BatchCmd struct {
	Paths   []string `arg:"" help:"Poem files or directories."`
	Workers int      `name:"workers" help:"Worker count (default from config, then CPU count)."`
	JSON    bool     `name:"json" help:"Print results as JSON."`
}

func (c *BatchCmd) Run(app *App) error {
	var items []analyzer.BatchItem
	for _, p := range c.Paths {
		files, err := expand(p)
		if err != nil {
			return err
		}
		for _, f := range files {
			doc, err := ingest.ParseFile(f)
			if err != nil {
				app.log.Warn("skipping file", zap.String("path", f), zap.Error(err))
				continue
			}
			items = append(items, analyzer.BatchItem{Name: f, Text: doc.Text})
		}
	}
	a, err := app.newAnalyzer()
	if err != nil {
		return err
	}
	workers := c.Workers
	if workers == 0 {
		workers = app.cfg.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results, errs := a.AnalyzeBatch(ctx, items, workers, analyzer.Options{})
	for _, err := range errs {
		app.log.Warn("batch item failed", zap.Error(err))
	}

	if c.JSON {
		return writeJSON(os.Stdout, results)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLINES\tFORM\tCONFIDENCE\tMETER\tSCHEME")
	for _, r := range results {
		if r.Skipped {
			continue
		}
		m := r.Analysis
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%s\t%s\n", r.Name, m.Meta.LineCount, m.Form.Type, m.Form.Confidence, m.Prosody.Meter.Name, m.Prosody.Rhyme.Scheme)
	}
	return tw.Flush()
}

type FormsCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *FormsCmd) Run(app *App) error {
	defs := form.Definitions()
	if c.JSON {
		return writeJSON(os.Stdout, defs)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRIORITY\tFORM\tCATEGORY\tDESCRIPTION")
	for _, d := range defs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Priority, d.Type, d.Category, d.Description)
	}
	return tw.Flush()
}

type SketchCmd struct {
	Path   string `arg:"" help:"Poem file or - for stdin."`
	Output string `name:"output" short:"o" required:"" help:"Destination .mid file." type:"path"`
}

func (c *SketchCmd) Run(app *App) error {
	doc, err := readPoem(c.Path)
	if err != nil {
		return err
	}
	a, err := app.newAnalyzer()
	if err != nil {
		return err
	}
	out := a.Analyze(context.Background(), doc.Text, analyzer.Options{})
	var lines, patterns []string
	for _, l := range out.Lines() {
		lines = append(lines, l.Text)
		patterns = append(patterns, l.StressPattern)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create sketch: %w", err)
	}
	defer f.Close()
	if err := melody.WriteSketch(f, out.Melody, lines, patterns); err != nil {
		return err
	}
	app.log.Info("sketch written",
		zap.String("path", c.Output),
		zap.String("time_signature", out.Melody.TimeSignature),
		zap.Int("tempo", out.Melody.Tempo),
		zap.String("key", out.Melody.Key))
	return f.Close()
}

type ServeCmd struct {
	Addr string `name:"addr" help:"Listen address (default from config)."`
}

func (c *ServeCmd) Run(app *App) error {
	a, err := app.newAnalyzer()
	if err != nil {
		return err
	}
	addr := c.Addr
	if addr == "" {
		addr = app.cfg.Server.Addr
	}
	gin.SetMode(gin.ReleaseMode)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(a, app.log).Run(ctx, addr)
}

type CacheCmd struct {
	Sweep SweepCmd `cmd:"" help:"Remove expired and unreadable cache entries."`
}

type SweepCmd struct{}

func (c *SweepCmd) Run(app *App) error {
	a, err := app.newAnalyzer()
	if err != nil {
		return err
	}
	return sweep(context.Background(), os.Stdout, a, app.store)
}

// counter is implemented by stores that can report their total size.
type counter interface {
	Count(ctx context.Context) (int, error)
}

func sweep(ctx context.Context, w io.Writer, a *analyzer.Analyzer, store cache.Store) error {
	removed, err := a.Cache().Sweep(ctx, a.TTL())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "removed %d cache entries\n", removed)
	if c, ok := store.(counter); ok {
		n, err := c.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d entries remain\n", n)
	}
	return nil
}

type ReportCmd struct {
	Hash string `arg:"" help:"Content hash printed by analyze --json (meta.hash)."`
	JSON bool   `name:"json" help:"Print the saved report as JSON."`
}

func (c *ReportCmd) Run(app *App) error {
	if app.workspace == "" {
		return fmt.Errorf("report needs a workspace (--workspace or POEMLAB_WORKSPACE)")
	}
	return showReport(os.Stdout, app.workspace, c.Hash, c.JSON)
}

func showReport(w io.Writer, base, hash string, asJSON bool) error {
	var out analyzer.PoemAnalysis
	r, err := workspace.LoadReport(base, hash, &out)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(w, r)
	}
	printSummary(w, r.Title, out)
	return nil
}

func readPoem(path string) (*ingest.Document, error) {
	if path != "-" {
		return ingest.ParseFile(path)
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return ingest.Parse("stdin.txt", raw)
}

// expand turns a directory into its supported files; plain paths pass through.
func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var out []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && ingest.Supported(p) {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, title string, a analyzer.PoemAnalysis) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "lines %d  stanzas %d  words %d  syllables %d\n",
		a.Meta.LineCount, a.Meta.StanzaCount, a.Meta.WordCount, a.Meta.SyllableCount)
	fmt.Fprintf(w, "form     %s (%.2f)\n", a.Form.Type, a.Form.Confidence)
	for _, alt := range a.Form.Alternatives {
		fmt.Fprintf(w, "         or %s (%.2f)\n", alt.Type, alt.Confidence)
	}
	fmt.Fprintf(w, "meter    %s (%.2f), regularity %.2f\n", a.Prosody.Meter.Name, a.Prosody.Meter.Confidence, a.Prosody.Regularity)
	fmt.Fprintf(w, "rhyme    %s\n", a.Prosody.Rhyme.Scheme)
	fmt.Fprintf(w, "emotion  sentiment %.2f, arousal %.2f, %s\n", a.Emotion.Sentiment, a.Emotion.Arousal, strings.Join(a.Emotion.DominantEmotions, ", "))
	fmt.Fprintf(w, "melody   %s, %d bpm, %s %s\n", a.Melody.TimeSignature, a.Melody.Tempo, a.Melody.Key, a.Melody.Mode)
	fmt.Fprintln(w)
	for i, line := range a.Lines() {
		fmt.Fprintf(w, "%3d  %-14s %.2f  %s\n", i+1, line.StressPattern, line.Singability.Score, line.Text)
	}
	if len(a.Problems) > 0 {
		fmt.Fprintln(w, "\nproblems:")
		for _, p := range a.Problems {
			fmt.Fprintf(w, "  line %d: [%s/%s] %s\n", p.Line+1, p.Type, p.Severity, p.Description)
		}
	}
}
