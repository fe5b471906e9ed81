// Package singability scores how easily lines can be sung from their syllable shapes.
package singability

import (
	"fmt"
	"strings"

	"poemlab/internal/phonetics"
)

type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

// Syllables with no phonetic detail get a neutral score.
const estimatedScore = 0.7

const (
	closedPenalty = 0.1
	codaPenalty   = 0.15 // per coda consonant beyond the first
	onsetPenalty  = 0.08 // per onset consonant beyond the first
	lowScore      = 0.6
)

// Issue is a hard-to-sing spot. Position indexes syllables within the line.
type Issue struct {
	Position    int      `json:"position"`
	Word        string   `json:"word"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type Result struct {
	Score     float64   `json:"score"`
	Syllables []float64 `json:"syllables"`
	Issues    []Issue   `json:"issues"`
}

// ScoreSyllable rates one syllable in [0,1]. Open syllables with simple onsets sing
// best; coda clusters cost the most.
func ScoreSyllable(s phonetics.Syllable) float64 {
	if len(s.Phonemes) == 0 {
		return estimatedScore
	}
	score := 1.0
	if n := len(s.Onset); n > 1 {
		score -= onsetPenalty * float64(n-1)
	}
	if !s.IsOpen {
		score -= closedPenalty
	}
	if n := len(s.Coda); n > 1 {
		score -= codaPenalty * float64(n-1)
	}
	return clamp01(score)
}

// ScoreLine scores every syllable of a line and flags problem spots.
func ScoreLine(words []phonetics.Word) Result {
	r := Result{Syllables: []float64{}, Issues: []Issue{}}
	pos := 0
	sum := 0.0
	for _, w := range words {
		for _, s := range w.Syllables {
			score := ScoreSyllable(s)
			r.Syllables = append(r.Syllables, score)
			sum += score
			if issue, ok := inspect(s, score); ok {
				issue.Position = pos
				issue.Word = w.Text
				r.Issues = append(r.Issues, issue)
			}
			pos++
		}
	}
	if pos > 0 {
		r.Score = clamp01(sum / float64(pos))
	}
	return r
}

func inspect(s phonetics.Syllable, score float64) (Issue, bool) {
	switch {
	case len(s.Coda) >= 3:
		return Issue{
			Description: fmt.Sprintf("heavy final consonant cluster /%s/", strings.Join(s.Coda, " ")),
			Severity:    High,
		}, true
	case len(s.Onset) >= 3:
		return Issue{
			Description: fmt.Sprintf("dense opening cluster /%s/", strings.Join(s.Onset, " ")),
			Severity:    Medium,
		}, true
	case len(s.Coda) == 2 && score < lowScore+0.15:
		return Issue{
			Description: fmt.Sprintf("closed syllable ending in /%s/ is hard to sustain", strings.Join(s.Coda, " ")),
			Severity:    Low,
		}, true
	case score < lowScore:
		return Issue{Description: "low singability", Severity: Medium}, true
	}
	return Issue{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
