// Package meter classifies the dominant metrical foot of a poem from per-line stress
// patterns.
package meter

import (
	"fmt"
	"math"
	"strings"

	"poemlab/internal/phonetics"
)

type Foot string

const (
	Iamb    Foot = "iamb"
	Trochee Foot = "trochee"
	Anapest Foot = "anapest"
	Dactyl  Foot = "dactyl"
	Spondee Foot = "spondee"
	Unknown Foot = "unknown"
)

// Template is the stress unit of a foot. Order matters: ties between equally fitting
// templates go to the earlier one.
type Template struct {
	Foot    Foot
	Pattern string
}

var Templates = []Template{
	{Iamb, "01"},
	{Trochee, "10"},
	{Anapest, "001"},
	{Dactyl, "100"},
	{Spondee, "11"},
}

// Lines fitting their dominant template worse than this leave the foot unknown.
const minFit = 0.5

// A reading below this confidence is reported as free verse even when the template fits.
const minConfidence = 0.5

// MismatchDensity is the share of deviating syllables above which a line counts as a
// stress mismatch.
const MismatchDensity = 0.3

// LineMeter is the meter reading of a single line.
type LineMeter struct {
	Pattern    string  `json:"pattern"`
	Foot       Foot    `json:"foot"`
	Fit        float64 `json:"fit"`
	Deviations []int   `json:"deviations,omitempty"`
}

// DeviationDensity is the share of syllables that depart from the dominant template.
func (l LineMeter) DeviationDensity() float64 {
	if len(l.Pattern) == 0 {
		return 0
	}
	return float64(len(l.Deviations)) / float64(len(l.Pattern))
}

// Analysis is the poem-level meter classification.
type Analysis struct {
	Pattern     string      `json:"pattern"`
	Name        string      `json:"name"`
	Foot        Foot        `json:"foot"`
	FeetPerLine int         `json:"feetPerLine"`
	Confidence  float64     `json:"confidence"`
	Deviations  []int       `json:"deviations"`
	Lines       []LineMeter `json:"lines"`
}

// LinePattern concatenates the stresses of a line's words. Monosyllabic function words
// are read as unstressed.
func LinePattern(words []phonetics.Word) string {
	var b strings.Builder
	for _, w := range words {
		if len(w.Syllables) == 1 && phonetics.IsFunctionWord(w.Text) {
			b.WriteByte('0')
			continue
		}
		b.WriteString(w.StressPattern())
	}
	return b.String()
}

// Fit scores how well pattern follows template repeated from the line start. Secondary
// stress matches either position.
func Fit(pattern, template string) float64 {
	if pattern == "" || template == "" {
		return 0
	}
	match := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '2' || pattern[i] == template[i%len(template)] {
			match++
		}
	}
	return float64(match) / float64(len(pattern))
}

func deviations(pattern, template string, offset int) []int {
	var out []int
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '2' && pattern[i] != template[i%len(template)] {
			out = append(out, offset+i)
		}
	}
	return out
}

// Analyze classifies the dominant foot across lines, one stress pattern per line.
func Analyze(patterns []string) Analysis {
	a := Analysis{Foot: Unknown, Name: Name(Unknown, 0), Deviations: []int{}}
	a.Pattern = strings.Join(patterns, "")
	a.Lines = make([]LineMeter, len(patterns))
	for i, p := range patterns {
		a.Lines[i] = LineMeter{Pattern: p, Foot: Unknown}
	}
	if a.Pattern == "" {
		return a
	}

	counts := make([]int, len(Templates))
	sums := make([]float64, len(Templates))
	voiced := 0
	for i, p := range patterns {
		if p == "" {
			continue
		}
		voiced++
		best, bestFit := 0, -1.0
		for ti, t := range Templates {
			f := Fit(p, t.Pattern)
			sums[ti] += f
			if f > bestFit {
				best, bestFit = ti, f
			}
		}
		counts[best]++
		a.Lines[i].Foot = Templates[best].Foot
		a.Lines[i].Fit = bestFit
	}

	dom := 0
	for ti := range Templates {
		if counts[ti] > counts[dom] || (counts[ti] == counts[dom] && sums[ti] > sums[dom]) {
			dom = ti
		}
	}
	meanFit := sums[dom] / float64(voiced)
	share := float64(counts[dom]) / float64(voiced)
	a.Confidence = clamp01(0.5*meanFit + 0.5*share)
	if meanFit < minFit || a.Confidence < minConfidence {
		return a
	}

	t := Templates[dom]
	a.Foot = t.Foot
	offset := 0
	feet := 0.0
	for i, p := range patterns {
		a.Lines[i].Deviations = deviations(p, t.Pattern, 0)
		for _, d := range a.Lines[i].Deviations {
			a.Deviations = append(a.Deviations, offset+d)
		}
		offset += len(p)
		if p != "" {
			feet += float64(len(p)) / float64(len(t.Pattern))
		}
	}
	a.FeetPerLine = int(math.Round(feet / float64(voiced)))
	a.Name = Name(a.Foot, a.FeetPerLine)
	return a
}

var footAdjectives = map[Foot]string{
	Iamb:    "iambic",
	Trochee: "trochaic",
	Anapest: "anapestic",
	Dactyl:  "dactylic",
	Spondee: "spondaic",
}

var lineLengths = []string{"", "monometer", "dimeter", "trimeter", "tetrameter", "pentameter", "hexameter", "heptameter", "octameter"}

// Name renders a conventional meter name such as "iambic pentameter".
func Name(foot Foot, feet int) string {
	adj, ok := footAdjectives[foot]
	if !ok {
		return "free verse"
	}
	if feet <= 0 || feet >= len(lineLengths) {
		return fmt.Sprintf("%s meter", adj)
	}
	return adj + " " + lineLengths[feet]
}

// FootLength is the number of syllables in one foot; zero for Unknown.
func FootLength(foot Foot) int {
	for _, t := range Templates {
		if t.Foot == foot {
			return len(t.Pattern)
		}
	}
	return 0
}

// Ternary reports whether foot has three syllables.
func Ternary(foot Foot) bool {
	return FootLength(foot) == 3
}

// Regularity is 1/(1+variance) of the per-line syllable counts.
func Regularity(syllableCounts []int) float64 {
	if len(syllableCounts) == 0 {
		return 0
	}
	mean := 0.0
	for _, c := range syllableCounts {
		mean += float64(c)
	}
	mean /= float64(len(syllableCounts))
	variance := 0.0
	for _, c := range syllableCounts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(syllableCounts))
	return clamp01(1 / (1 + variance))
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
