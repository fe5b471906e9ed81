package analyzer

import (
	"poemlab/internal/cliche"
	"poemlab/internal/emotion"
	"poemlab/internal/form"
	"poemlab/internal/melody"
	"poemlab/internal/meter"
	"poemlab/internal/phonetics"
	"poemlab/internal/rhyme"
	"poemlab/internal/singability"
	"poemlab/internal/sound"
	"poemlab/internal/structure"
)

type ProblemType string

const (
	StressMismatch   ProblemType = "stress_mismatch"
	Singability      ProblemType = "singability"
	SyllableVariance ProblemType = "syllable_variance"
	Cliche           ProblemType = "cliche"
)

type Meta struct {
	Hash          string `json:"hash"`
	LineCount     int    `json:"lineCount"`
	StanzaCount   int    `json:"stanzaCount"`
	WordCount     int    `json:"wordCount"`
	SyllableCount int    `json:"syllableCount"`
}

// AnalyzedLine is one line with its resolved words. len(StressPattern) == SyllableCount.
type AnalyzedLine struct {
	Text          string             `json:"text"`
	Words         []phonetics.Word   `json:"words"`
	StressPattern string             `json:"stressPattern"`
	SyllableCount int                `json:"syllableCount"`
	Singability   singability.Result `json:"singability"`
}

type Stanza struct {
	Lines   []AnalyzedLine        `json:"lines"`
	Section structure.SectionType `json:"section"`
}

type Prosody struct {
	Meter      meter.Analysis `json:"meter"`
	Rhyme      rhyme.Analysis `json:"rhyme"`
	Regularity float64        `json:"regularity"`
}

// Problem is a spot worth revising. Line is the flattened line index, Stanza the stanza
// holding it and Position the syllable index within the line.
type Problem struct {
	Line        int                  `json:"line"`
	Stanza      int                  `json:"stanza"`
	Position    int                  `json:"position"`
	Type        ProblemType          `json:"type"`
	Severity    singability.Severity `json:"severity"`
	Description string               `json:"description"`
}

type PoemAnalysis struct {
	Meta          Meta               `json:"meta"`
	Structure     []Stanza           `json:"structure"`
	Prosody       Prosody            `json:"prosody"`
	Sound         sound.Analysis     `json:"soundPatterns"`
	Emotion       emotion.Analysis   `json:"emotion"`
	Problems      []Problem          `json:"problems"`
	Melody        melody.Suggestion  `json:"melody"`
	SongStructure structure.Analysis `json:"songStructure"`
	Form          form.Result        `json:"form"`
	Cliches       cliche.Report      `json:"cliches"`
}

// Lines flattens Structure in reading order.
func (p PoemAnalysis) Lines() []AnalyzedLine {
	var out []AnalyzedLine
	for _, s := range p.Structure {
		out = append(out, s.Lines...)
	}
	return out
}
