// Package analyzer runs the full poem analysis pipeline with content-hash caching and
// staged progress reporting.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"poemlab/internal/cache"
	"poemlab/internal/cliche"
	"poemlab/internal/emotion"
	"poemlab/internal/form"
	"poemlab/internal/melody"
	"poemlab/internal/meter"
	"poemlab/internal/phonetics"
	"poemlab/internal/preprocess"
	"poemlab/internal/rhyme"
	"poemlab/internal/singability"
	"poemlab/internal/sound"
	"poemlab/internal/structure"
)

type Analyzer struct {
	log      *zap.Logger
	resolver *phonetics.Resolver
	store    cache.Store
	prefix   string
	cache    *cache.AnalysisCache[PoemAnalysis]
	ttl      time.Duration
	rhyme    rhyme.Options
}

type Option func(*Analyzer)

func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithDictionary replaces the embedded pronunciation dictionary.
func WithDictionary(dict phonetics.Lookup) Option {
	return func(a *Analyzer) { a.resolver = phonetics.NewResolver(dict) }
}

// WithCache persists results in store under prefix ("" selects the default prefix).
func WithCache(store cache.Store, prefix string) Option {
	return func(a *Analyzer) {
		a.store = store
		a.prefix = prefix
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(a *Analyzer) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

func WithRhymeOptions(opts rhyme.Options) Option {
	return func(a *Analyzer) { a.rhyme = opts }
}

// New builds an analyzer. Without WithCache nothing is cached.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		log:      zap.NewNop(),
		resolver: phonetics.NewResolver(phonetics.Default()),
		store:    cache.NopStore{},
		ttl:      cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.cache = cache.NewAnalysisCache[PoemAnalysis](a.store, a.prefix)
	return a
}

// Options apply to a single call.
type Options struct {
	OnProgress ProgressFn
	// TTL overrides the analyzer's cache lifetime when positive.
	TTL time.Duration
	// NoCache skips both the cache read and the write.
	NoCache bool
}

// Cache exposes the analysis cache, e.g. for sweeping.
func (a *Analyzer) Cache() *cache.AnalysisCache[PoemAnalysis] { return a.cache }

func (a *Analyzer) TTL() time.Duration { return a.ttl }

// Analyze never fails. A cache hit emits a single "cached" event; otherwise every stage
// reports start and completion and the call ends with "complete" at 100.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) PoemAnalysis {
	hash := ContentHash(text)
	log := a.log.With(zap.String("run_id", uuid.NewString()), zap.String("hash", hash))
	rep := &reporter{on: opts.OnProgress, log: log}
	ttl := a.ttl
	if opts.TTL > 0 {
		ttl = opts.TTL
	}

	if strings.TrimSpace(text) == "" {
		out := a.run(preprocess.Process(""), hash, &reporter{log: zap.NewNop()})
		rep.progress(100, StageComplete, "empty poem")
		return out
	}

	if !opts.NoCache {
		cached, err := a.cache.Get(ctx, hash, ttl)
		switch {
		case err == nil:
			log.Debug("cache hit")
			rep.progress(100, StageCached, "loaded cached analysis")
			return cached
		case errors.Is(err, cache.ErrNotFound):
			log.Debug("cache miss")
		default:
			log.Warn("cache read failed", zap.Error(err))
		}
	}

	rep.start(0)
	poem := preprocess.Process(text)
	rep.finish(0, fmt.Sprintf("%d lines in %d stanzas", poem.LineCount, poem.StanzaCount))

	out := a.run(poem, hash, rep)

	if !opts.NoCache {
		if err := a.cache.Put(ctx, hash, out, ttl); err != nil {
			log.Warn("cache write failed; continuing uncached", zap.Error(err))
		} else {
			log.Debug("cache write", zap.String("key", a.cache.Key(hash)))
		}
	}
	rep.progress(100, StageComplete, fmt.Sprintf("form %s", out.Form.Type))
	return out
}

// AnalyzeIncremental re-analyzes text after an edit. It is a cache-gated full analysis;
// previous is only used to report the change.
func (a *Analyzer) AnalyzeIncremental(ctx context.Context, previous *PoemAnalysis, text string, opts Options) PoemAnalysis {
	out := a.Analyze(ctx, text, opts)
	if previous != nil {
		a.log.Debug("incremental analysis",
			zap.String("previous_hash", previous.Meta.Hash),
			zap.String("hash", out.Meta.Hash),
			zap.Int("line_delta", out.Meta.LineCount-previous.Meta.LineCount))
	}
	return out
}

// run executes the stages after preprocessing.
func (a *Analyzer) run(poem preprocess.Poem, hash string, rep *reporter) PoemAnalysis {
	out := PoemAnalysis{
		Meta: Meta{
			Hash:        hash,
			LineCount:   poem.LineCount,
			StanzaCount: poem.StanzaCount,
			WordCount:   poem.WordCount,
		},
		Structure: make([]Stanza, len(poem.Stanzas)),
	}

	rep.start(1)
	lines := make([]AnalyzedLine, 0, poem.LineCount)
	words := make([][]phonetics.Word, 0, poem.LineCount)
	estimated := 0
	for _, text := range poem.Lines {
		var ws []phonetics.Word
		for _, tok := range preprocess.Words(text) {
			w := a.resolver.Resolve(tok)
			if w.Estimated {
				estimated++
			}
			ws = append(ws, w)
		}
		if ws == nil {
			ws = []phonetics.Word{}
		}
		words = append(words, ws)
		lines = append(lines, AnalyzedLine{Text: text, Words: ws})
	}
	rep.finish(1, fmt.Sprintf("%d words resolved, %d estimated", poem.WordCount, estimated))

	rep.start(2)
	patterns := make([]string, len(lines))
	syllables := make([]int, len(lines))
	for i := range lines {
		patterns[i] = meter.LinePattern(words[i])
		syllables[i] = len(patterns[i])
		lines[i].StressPattern = patterns[i]
		lines[i].SyllableCount = syllables[i]
		out.Meta.SyllableCount += syllables[i]
	}
	rep.finish(2, fmt.Sprintf("%d syllables", out.Meta.SyllableCount))

	rep.start(3)
	out.Prosody.Meter = meter.Analyze(patterns)
	out.Prosody.Regularity = meter.Regularity(syllables)
	rep.finish(3, fmt.Sprintf("%s (%.2f)", out.Prosody.Meter.Name, out.Prosody.Meter.Confidence))

	rep.start(4)
	out.Prosody.Rhyme = rhyme.Analyze(words, a.rhyme)
	rep.finish(4, "scheme "+out.Prosody.Rhyme.Scheme)

	rep.start(5)
	out.Sound = sound.Analyze(poem.Lines, a.resolver)
	rep.finish(5, fmt.Sprintf("%d sound patterns", len(out.Sound.Occurrences)))

	rep.start(6)
	for i := range lines {
		lines[i].Singability = singability.ScoreLine(words[i])
	}
	rep.finish(6, fmt.Sprintf("%d lines scored", len(lines)))

	rep.start(7)
	out.Emotion = emotion.Analyze(poem.Stanzas)
	rep.finish(7, fmt.Sprintf("sentiment %.2f arousal %.2f", out.Emotion.Sentiment, out.Emotion.Arousal))

	rep.start(8)
	out.SongStructure = structure.Analyze(poem.Stanzas)
	rep.finish(8, fmt.Sprintf("%d sections", len(out.SongStructure.Sections)))

	next := 0
	perStanza := make([]int, len(poem.Stanzas))
	for si, st := range poem.Stanzas {
		perStanza[si] = len(st)
		out.Structure[si].Lines = lines[next : next+len(st)]
		out.Structure[si].Section = out.SongStructure.TypeOf(si)
		next += len(st)
	}

	out.Form = form.Detect(form.Input{
		LineCount:       poem.LineCount,
		StanzaCount:     poem.StanzaCount,
		LinesPerStanza:  perStanza,
		Foot:            out.Prosody.Meter.Foot,
		MeterName:       out.Prosody.Meter.Name,
		FeetPerLine:     out.Prosody.Meter.FeetPerLine,
		MeterConfidence: out.Prosody.Meter.Confidence,
		Scheme:          out.Prosody.Rhyme.Scheme,
		Syllables:       syllables,
		Regularity:      out.Prosody.Regularity,
	})
	groups := make([][]int, len(out.Prosody.Rhyme.Groups))
	for i, g := range out.Prosody.Rhyme.Groups {
		groups[i] = g.Lines
	}
	out.Cliches = cliche.Analyze(poem.Lines, groups)
	out.Problems = findProblems(lines, out.Prosody.Meter, out.Cliches)
	for i := range out.Problems {
		out.Problems[i].Stanza = poem.StanzaOf(out.Problems[i].Line)
	}
	out.Melody = melody.Suggest(melody.Input{
		Foot:           out.Prosody.Meter.Foot,
		FeetPerLine:    out.Prosody.Meter.FeetPerLine,
		Emotion:        out.Emotion,
		LinesPerStanza: perStanza,
		Structure:      out.SongStructure,
	})
	return out
}
