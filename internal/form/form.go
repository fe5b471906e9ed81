// Package form classifies poems against a registry of named forms.
package form

import (
	"sort"

	"poemlab/internal/meter"
)

type Type string

type Category string

const (
	CategorySonnet   Category = "sonnet"
	CategorySyllabic Category = "syllabic"
	CategoryFixed    Category = "fixed"
	CategoryMetrical Category = "metrical"
	CategoryStanzaic Category = "stanzaic"
	CategoryOpen     Category = "open"
	CategoryUnknown  Category = "unknown"
)

const Unknown Type = "unknown"

// Alternatives below this confidence are not reported.
const minAlternative = 0.3

const maxAlternatives = 3

// Input is everything a form definition may look at.
type Input struct {
	LineCount       int
	StanzaCount     int
	LinesPerStanza  []int
	Foot            meter.Foot
	MeterName       string
	FeetPerLine     int
	MeterConfidence float64
	Scheme          string
	Syllables       []int
	Regularity      float64
}

type Evidence struct {
	LineCount       bool     `json:"lineCount"`
	RhymeScheme     bool     `json:"rhymeScheme"`
	Meter           bool     `json:"meter"`
	SyllablePattern bool     `json:"syllablePattern"`
	StanzaStructure bool     `json:"stanzaStructure"`
	Notes           []string `json:"notes"`
}

// Definition is one named form. Check must be pure.
type Definition struct {
	Type        Type
	Category    Category
	Description string
	Check       func(Input) (float64, Evidence)
}

type Alternative struct {
	Type       Type     `json:"type"`
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
}

type Result struct {
	Type         Type          `json:"type"`
	Category     Category      `json:"category"`
	Confidence   float64       `json:"confidence"`
	Evidence     Evidence      `json:"evidence"`
	Alternatives []Alternative `json:"alternatives"`
}

// Info describes a registry entry for listings.
type Info struct {
	Type        Type     `json:"type"`
	Category    Category `json:"category"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
}

// Definitions lists the registry in priority order.
func Definitions() []Info {
	out := make([]Info, len(Registry))
	for i, d := range Registry {
		out[i] = Info{Type: d.Type, Category: d.Category, Priority: i, Description: d.Description}
	}
	return out
}

type scored struct {
	def        Definition
	priority   int
	confidence float64
	evidence   Evidence
}

// Detect evaluates every definition and returns the best match. Equal confidences are
// broken by registry priority, never by sort accident.
func Detect(in Input) Result {
	if in.LineCount == 0 {
		return Result{
			Type:         Unknown,
			Category:     CategoryUnknown,
			Evidence:     Evidence{Notes: []string{"empty poem"}},
			Alternatives: []Alternative{},
		}
	}

	all := make([]scored, len(Registry))
	for i, d := range Registry {
		c, ev := d.Check(in)
		all[i] = scored{def: d, priority: i, confidence: clamp01(c), evidence: ev}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].confidence != all[j].confidence {
			return all[i].confidence > all[j].confidence
		}
		return all[i].priority < all[j].priority
	})

	best := all[0]
	res := Result{
		Type:         best.def.Type,
		Category:     best.def.Category,
		Confidence:   best.confidence,
		Evidence:     best.evidence,
		Alternatives: []Alternative{},
	}
	for _, s := range all[1:] {
		if len(res.Alternatives) == maxAlternatives || s.confidence < minAlternative {
			break
		}
		res.Alternatives = append(res.Alternatives, Alternative{
			Type:       s.def.Type,
			Category:   s.def.Category,
			Confidence: s.confidence,
		})
	}
	return res
}
