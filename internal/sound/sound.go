// Package sound detects alliteration, assonance and consonance within lines.
package sound

import (
	"sort"
	"unicode/utf8"

	"poemlab/internal/phonetics"
	"poemlab/internal/preprocess"
)

type Type string

const (
	Alliteration Type = "alliteration"
	Assonance    Type = "assonance"
	Consonance   Type = "consonance"
)

// Consonants frequent enough in English that repeating them is weak evidence.
var commonConsonants = map[string]bool{"T": true, "N": true, "S": true, "R": true, "L": true, "D": true}

const commonPenalty = 0.7

// PhonemeLookup resolves a token to dictionary phonemes. *phonetics.Resolver satisfies it.
type PhonemeLookup interface {
	LookupPhonemes(token string) ([]string, bool)
}

// Occurrence is one repeated sound in one line.
type Occurrence struct {
	Type      Type     `json:"type"`
	Sound     string   `json:"sound"`
	Words     []string `json:"words"`
	Positions []int    `json:"positions"`
	Line      int      `json:"line"`
	Strength  float64  `json:"strength"`
}

type Summary struct {
	Alliteration     int      `json:"alliteration"`
	Assonance        int      `json:"assonance"`
	Consonance       int      `json:"consonance"`
	Density          float64  `json:"density"`
	TopAlliterations []string `json:"topAlliterations"`
	TopAssonances    []string `json:"topAssonances"`
}

type Analysis struct {
	Occurrences []Occurrence `json:"occurrences"`
	Summary     Summary      `json:"summary"`
}

type bucket struct {
	sound string
	words []preprocess.Token
}

// buckets groups tokens by key in order of first appearance.
type buckets struct {
	order []string
	byKey map[string]*bucket
}

func (b *buckets) add(key string, tok preprocess.Token) {
	if b.byKey == nil {
		b.byKey = map[string]*bucket{}
	}
	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{sound: key}
		b.byKey[key] = bk
		b.order = append(b.order, key)
	}
	bk.words = append(bk.words, tok)
}

// AnalyzeLine finds sound repetitions in a single line. Words without dictionary
// phonemes are skipped.
func AnalyzeLine(line int, text string, lookup PhonemeLookup) []Occurrence {
	var allit, asson, cons buckets
	for _, tok := range preprocess.Tokenize(text) {
		phonemes, ok := lookup.LookupPhonemes(tok.Text)
		if !ok || len(phonemes) == 0 {
			continue
		}
		if phonetics.IsConsonant(phonemes[0]) {
			allit.add(phonemes[0], tok)
		}
		seenV := map[string]bool{}
		seenC := map[string]bool{}
		for _, p := range phonemes {
			base := phonetics.Base(p)
			switch {
			case phonetics.IsVowel(p) && !seenV[base]:
				seenV[base] = true
				asson.add(base, tok)
			case phonetics.IsConsonant(p) && !seenC[base]:
				seenC[base] = true
				cons.add(base, tok)
			}
		}
	}

	length := utf8.RuneCountInString(text)
	var out []Occurrence
	emit := func(typ Type, b buckets) {
		for _, key := range b.order {
			bk := b.byKey[key]
			need := 2
			penalty := 1.0
			if typ == Consonance && commonConsonants[key] {
				need = 3
				penalty = commonPenalty
			}
			if len(bk.words) < need {
				continue
			}
			occ := Occurrence{Type: typ, Sound: key, Line: line}
			for _, w := range bk.words {
				occ.Words = append(occ.Words, w.Text)
				occ.Positions = append(occ.Positions, w.Start)
			}
			occ.Strength = clamp01(Strength(occ.Positions, length) * penalty)
			out = append(out, occ)
		}
	}
	emit(Alliteration, allit)
	emit(Assonance, asson)
	emit(Consonance, cons)
	return out
}

// Strength combines a count term, saturating at five words, with a proximity term that
// shrinks as the words spread across the line.
func Strength(positions []int, lineLength int) float64 {
	n := len(positions)
	if n < 2 {
		return 0
	}
	count := clamp01(float64(n-1) / 4)
	proximity := 1.0
	if lineLength > 0 {
		first, last := positions[0], positions[0]
		for _, p := range positions {
			if p < first {
				first = p
			}
			if p > last {
				last = p
			}
		}
		proximity = 1 - float64(last-first)/float64(lineLength)
	}
	return clamp01(0.6*count + 0.4*clamp01(proximity))
}

// Analyze runs AnalyzeLine over every line and summarizes the result.
func Analyze(lines []string, lookup PhonemeLookup) Analysis {
	a := Analysis{Occurrences: []Occurrence{}}
	for i, line := range lines {
		a.Occurrences = append(a.Occurrences, AnalyzeLine(i, line, lookup)...)
	}
	a.Summary = Summarize(a.Occurrences, len(lines))
	return a
}

// Summarize counts occurrences per type. Density is patterns per line scaled so that
// four patterns a line saturate at 1.
func Summarize(occs []Occurrence, lineCount int) Summary {
	s := Summary{TopAlliterations: []string{}, TopAssonances: []string{}}
	allit := map[string]int{}
	asson := map[string]int{}
	for _, o := range occs {
		switch o.Type {
		case Alliteration:
			s.Alliteration++
			allit[o.Sound]++
		case Assonance:
			s.Assonance++
			asson[o.Sound]++
		case Consonance:
			s.Consonance++
		}
	}
	if lineCount > 0 {
		s.Density = clamp01(float64(len(occs)) / float64(lineCount) / 4)
	}
	s.TopAlliterations = top(allit, 3)
	s.TopAssonances = top(asson, 3)
	return s
}

func top(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
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
