package form

import (
	"fmt"
	"math"
	"strings"

	"poemlab/internal/meter"
)

// scorer accumulates weighted partial matches and the evidence behind them.
type scorer struct {
	total float64
	ev    Evidence
}

// add credits weight*score. flag, when non-nil, is set once the partial match is
// strong enough to count as evidence.
func (s *scorer) add(weight, score float64, flag *bool, note string) {
	score = clamp01(score)
	s.total += weight * score
	if flag != nil && score >= strongMatch {
		*flag = true
	}
	if note != "" {
		s.ev.Notes = append(s.ev.Notes, note)
	}
}

func (s *scorer) result() (float64, Evidence) {
	if s.ev.Notes == nil {
		s.ev.Notes = []string{}
	}
	return clamp01(s.total), s.ev
}

const strongMatch = 0.8

// lineMatch is 1 on an exact count and falls off quickly as the count drifts.
func lineMatch(n, want int) float64 {
	if want <= 0 {
		return 0
	}
	if n == want {
		return 1
	}
	d := math.Abs(float64(n - want))
	return clamp01(1 - 2*d/float64(want))
}

// groups turns a scheme string into per-line group ids.
func groups(scheme string) []int {
	ids := map[rune]int{}
	out := make([]int, 0, len(scheme))
	for _, r := range scheme {
		id, ok := ids[r]
		if !ok {
			id = len(ids)
			ids[r] = id
		}
		out = append(out, id)
	}
	return out
}

func pairs(n int) int {
	return n * (n - 1) / 2
}

// schemeF1 compares which line pairs rhyme in actual against which should in pattern,
// so relabelled letters don't matter. Lengths must agree.
func schemeF1(actual, pattern []int) float64 {
	if len(actual) != len(pattern) || len(actual) == 0 {
		return 0
	}
	type cell struct{ a, p int }
	aCount := map[int]int{}
	pCount := map[int]int{}
	joint := map[cell]int{}
	for i := range actual {
		aCount[actual[i]]++
		pCount[pattern[i]]++
		joint[cell{actual[i], pattern[i]}]++
	}
	aPairs, pPairs, both := 0, 0, 0
	for _, c := range aCount {
		aPairs += pairs(c)
	}
	for _, c := range pCount {
		pPairs += pairs(c)
	}
	for _, c := range joint {
		both += pairs(c)
	}
	if pPairs == 0 {
		if aPairs == 0 {
			return 1
		}
		return 0
	}
	if both == 0 {
		return 0
	}
	precision := float64(both) / float64(aPairs)
	recall := float64(both) / float64(pPairs)
	return 2 * precision * recall / (precision + recall)
}

// schemeMatch is the best F1 of scheme against any of the fixed patterns.
func schemeMatch(scheme string, patterns ...string) float64 {
	actual := groups(scheme)
	best := 0.0
	for _, p := range patterns {
		if f := schemeF1(actual, groups(p)); f > best {
			best = f
		}
	}
	return best
}

// repeatUnit tiles a stanza pattern over n lines with fresh groups per repetition.
func repeatUnit(unit string, n int) []int {
	base := groups(unit)
	width := 0
	for _, id := range base {
		if id+1 > width {
			width = id + 1
		}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = (i/len(base))*width + base[i%len(base)]
	}
	return out
}

// terzaRima chains tercets ABA BCB CDC...; a closing single line rhymes with the
// middle of the last tercet.
func terzaRima(n int) []int {
	out := make([]int, n)
	for i := range out {
		k := i / 3
		switch i % 3 {
		case 0, 2:
			out[i] = k
		case 1:
			out[i] = k + 1
		}
	}
	return out
}

// unrhymed is the share of lines whose letter no other line shares.
func unrhymed(scheme string) float64 {
	ids := groups(scheme)
	if len(ids) == 0 {
		return 0
	}
	count := map[int]int{}
	for _, id := range ids {
		count[id]++
	}
	alone := 0
	for _, id := range ids {
		if count[id] == 1 {
			alone++
		}
	}
	return float64(alone) / float64(len(ids))
}

// meterMatch credits the expected foot, the expected line length (feet 0 accepts any)
// and how confidently the meter was read.
func meterMatch(in Input, foot meter.Foot, feet int) float64 {
	if in.Foot != foot {
		return 0
	}
	feetPart := 1.0
	if feet > 0 {
		switch d := in.FeetPerLine - feet; {
		case d == 0:
		case d == 1 || d == -1:
			feetPart = 0.5
		default:
			feetPart = 0
		}
	}
	return (0.5 + 0.5*feetPart) * clamp01(in.MeterConfidence/0.7)
}

// syllableMatch compares per-line syllable counts with a target, allowing tol
// syllables of slack per line.
func syllableMatch(actual, want []int, tol int) float64 {
	n := len(actual)
	if len(want) > n {
		n = len(want)
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(actual) && i < len(want); i++ {
		d := actual[i] - want[i]
		if d < 0 {
			d = -d
		}
		if d <= tol {
			sum++
			continue
		}
		sum += clamp01(1 - float64(d-tol)/float64(want[i]))
	}
	return sum / float64(n)
}

// alternating builds a syllable target of n lines cycling through counts.
func alternating(n int, counts ...int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = counts[i%len(counts)]
	}
	return out
}

func stanzaShape(in Input, shapes ...[]int) bool {
	for _, s := range shapes {
		if equalInts(in.LinesPerStanza, s) {
			return true
		}
	}
	return false
}

// uniformStanzas reports whether there are at least count stanzas, all of size lines.
func uniformStanzas(in Input, size, count int) bool {
	if len(in.LinesPerStanza) < count {
		return false
	}
	for _, n := range in.LinesPerStanza {
		if n != size {
			return false
		}
	}
	return true
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func boolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "-")
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
