// Package structure segments stanzas into song-like sections.
package structure

import (
	"fmt"
	"strings"

	"poemlab/internal/preprocess"
)

type SectionType string

const (
	Verse  SectionType = "verse"
	Chorus SectionType = "chorus"
	Bridge SectionType = "bridge"
)

// Window is a stretch of the poem expressed as ratios of its stanza count.
type Window struct {
	Name       string
	StartRatio float64
	EndRatio   float64
}

// BridgeWindow is where a contrasting stanza reads as a bridge rather than a verse.
var BridgeWindow = Window{Name: "bridge", StartRatio: 0.5, EndRatio: 0.85}

// Stanzas sharing at least this share of their lines repeat as a chorus.
const chorusOverlap = 0.6

type Section struct {
	Type    SectionType `json:"type"`
	Label   string      `json:"label"`
	Stanzas []int       `json:"stanzas"`
}

type Analysis struct {
	Sections      []Section `json:"sections"`
	StanzaSection []int     `json:"stanzaSection"`
}

// TypeOf returns the section type of a stanza; Verse when out of range.
func (a Analysis) TypeOf(stanza int) SectionType {
	if stanza < 0 || stanza >= len(a.StanzaSection) {
		return Verse
	}
	return a.Sections[a.StanzaSection[stanza]].Type
}

// IsTransition reports whether a new section starts right after stanza.
func (a Analysis) IsTransition(stanza int) bool {
	if stanza < 0 || stanza+1 >= len(a.StanzaSection) {
		return false
	}
	return a.StanzaSection[stanza] != a.StanzaSection[stanza+1]
}

// StanzasInWindow maps a ratio window onto 0-based stanza indices, inclusive.
func StanzasInWindow(total int, startRatio, endRatio float64) (start, end int) {
	if total <= 0 {
		return 0, -1
	}
	start = int(float64(total) * startRatio)
	end = int(float64(total) * endRatio)
	if start < 0 {
		start = 0
	}
	if end > total-1 {
		end = total - 1
	}
	if start > end {
		start = end
	}
	return start, end
}

// Analyze labels stanzas: repeated stanzas are choruses, one contrasting stanza after a
// chorus inside BridgeWindow is a bridge, the rest are verses. Consecutive stanzas of
// the same type share a section.
func Analyze(stanzas [][]string) Analysis {
	a := Analysis{Sections: []Section{}, StanzaSection: make([]int, len(stanzas))}
	if len(stanzas) == 0 {
		return a
	}

	norm := make([]map[string]bool, len(stanzas))
	for i, s := range stanzas {
		norm[i] = map[string]bool{}
		for _, line := range s {
			norm[i][normalizeLine(line)] = true
		}
	}

	types := make([]SectionType, len(stanzas))
	firstChorus := -1
	for i := range stanzas {
		types[i] = Verse
		for j := range stanzas {
			if i != j && overlap(norm[i], norm[j]) >= chorusOverlap {
				types[i] = Chorus
				break
			}
		}
		if types[i] == Chorus && firstChorus < 0 {
			firstChorus = i
		}
	}

	if firstChorus >= 0 {
		verseLen := modalLength(stanzas, types)
		start, end := StanzasInWindow(len(stanzas), BridgeWindow.StartRatio, BridgeWindow.EndRatio)
		for i := max(start, firstChorus+1); i <= end; i++ {
			if types[i] == Verse && len(stanzas[i]) != verseLen {
				types[i] = Bridge
				break
			}
		}
	}

	verses := 0
	for i, t := range types {
		if i > 0 && types[i-1] == t {
			last := &a.Sections[len(a.Sections)-1]
			last.Stanzas = append(last.Stanzas, i)
			a.StanzaSection[i] = len(a.Sections) - 1
			continue
		}
		label := string(t)
		if t == Verse {
			verses++
			label = fmt.Sprintf("verse %d", verses)
		}
		a.Sections = append(a.Sections, Section{Type: t, Label: label, Stanzas: []int{i}})
		a.StanzaSection[i] = len(a.Sections) - 1
	}
	return a
}

func normalizeLine(line string) string {
	return strings.ToLower(strings.Join(preprocess.Words(line), " "))
}

func overlap(a, b map[string]bool) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	common := 0
	for k := range a {
		if b[k] {
			common++
		}
	}
	return float64(common) / float64(n)
}

func modalLength(stanzas [][]string, types []SectionType) int {
	counts := map[int]int{}
	best, bestCount := 0, 0
	for i, s := range stanzas {
		if types[i] != Verse {
			continue
		}
		counts[len(s)]++
		if c := counts[len(s)]; c > bestCount || (c == bestCount && len(s) < best) {
			best, bestCount = len(s), c
		}
	}
	return best
}
