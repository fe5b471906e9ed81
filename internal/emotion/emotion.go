// Package emotion estimates sentiment and arousal from a word lexicon and maps them to
// musical suggestions.
package emotion

import (
	_ "embed"
	"sort"
	"strconv"
	"strings"

	"poemlab/internal/preprocess"
)

//go:embed lexicon.tsv
var lexiconData string

// Entry is the affect of a single lexicon word.
type Entry struct {
	Valence float64
	Arousal float64
	Emotion string
}

var lexicon map[string]Entry

func init() {
	lexicon = parseLexicon(lexiconData)
}

// parseLexicon reads "word\tvalence\tarousal\temotion" lines; malformed rows are skipped.
func parseLexicon(raw string) map[string]Entry {
	m := make(map[string]Entry, 128)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) != 4 {
			continue
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		a, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}
		m[parts[0]] = Entry{Valence: v, Arousal: a, Emotion: parts[3]}
	}
	return m
}

var negations = map[string]bool{"not": true, "no": true, "never": true, "nor": true, "without": true}

const (
	// Arousal assumed for text with no lexicon hits.
	baselineArousal = 0.3
	// A negated word flips and weakens.
	negationFactor = -0.5
	exclaimBoost   = 0.05
	maxExclaim     = 0.2
)

type ArcEntry struct {
	Stanza    int      `json:"stanza"`
	Sentiment float64  `json:"sentiment"`
	Arousal   float64  `json:"arousal"`
	Keywords  []string `json:"keywords"`
}

type TempoRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Analysis struct {
	Sentiment        float64    `json:"sentiment"`
	Arousal          float64    `json:"arousal"`
	DominantEmotions []string   `json:"dominantEmotions"`
	Arc              []ArcEntry `json:"arc"`
	Mode             string     `json:"mode"`
	Tempo            TempoRange `json:"tempo"`
	Register         string     `json:"register"`
}

type tally struct {
	valence, arousal float64
	hits             int
	exclaims         int
	words            int
}

func (t tally) sentiment() float64 {
	if t.hits == 0 {
		return 0
	}
	return clamp(t.valence/float64(t.hits), -1, 1)
}

func (t tally) energy() float64 {
	if t.words == 0 {
		return 0
	}
	a := baselineArousal
	if t.hits > 0 {
		a = t.arousal / float64(t.hits)
	}
	boost := float64(t.exclaims) * exclaimBoost
	if boost > maxExclaim {
		boost = maxExclaim
	}
	return clamp(a+boost, 0, 1)
}

// Analyze scores each stanza and the poem as a whole.
func Analyze(stanzas [][]string) Analysis {
	out := Analysis{Arc: []ArcEntry{}, DominantEmotions: []string{}}
	var total tally
	counts := map[string]int{}

	for si, stanza := range stanzas {
		var st tally
		var keywords []string
		seen := map[string]bool{}
		for _, line := range stanza {
			st.exclaims += strings.Count(line, "!")
			words := preprocess.Words(line)
			st.words += len(words)
			for i, w := range words {
				w = strings.ToLower(w)
				e, ok := lexicon[w]
				if !ok {
					continue
				}
				v := e.Valence
				if negated(words, i) {
					v *= negationFactor
				}
				st.valence += v
				st.arousal += e.Arousal
				st.hits++
				counts[e.Emotion]++
				if !seen[w] {
					seen[w] = true
					keywords = append(keywords, w)
				}
			}
		}
		if keywords == nil {
			keywords = []string{}
		}
		out.Arc = append(out.Arc, ArcEntry{
			Stanza:    si,
			Sentiment: st.sentiment(),
			Arousal:   st.energy(),
			Keywords:  keywords,
		})
		total.valence += st.valence
		total.arousal += st.arousal
		total.hits += st.hits
		total.exclaims += st.exclaims
		total.words += st.words
	}

	out.Sentiment = total.sentiment()
	out.Arousal = total.energy()
	out.DominantEmotions = dominant(counts, 3)
	out.Mode = Mode(out.Sentiment)
	out.Tempo = Tempo(out.Arousal)
	out.Register = Register(out.Sentiment, out.Arousal)
	return out
}

func negated(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		w := strings.ToLower(words[j])
		if negations[w] || strings.HasSuffix(w, "n't") {
			return true
		}
	}
	return false
}

func dominant(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// Mode is major for non-negative sentiment, minor otherwise.
func Mode(sentiment float64) string {
	if sentiment >= 0 {
		return "major"
	}
	return "minor"
}

// Tempo picks a BPM range from arousal.
func Tempo(arousal float64) TempoRange {
	switch {
	case arousal < 0.35:
		return TempoRange{Min: 60, Max: 80}
	case arousal < 0.65:
		return TempoRange{Min: 80, Max: 110}
	default:
		return TempoRange{Min: 110, Max: 140}
	}
}

// Register suggests a vocal range: energetic text sits high, dark or subdued text low.
func Register(sentiment, arousal float64) string {
	switch {
	case arousal >= 0.65:
		return "high"
	case sentiment < -0.3 || arousal < 0.35:
		return "low"
	default:
		return "mid"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
