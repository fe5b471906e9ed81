// Package melody derives musical settings for a poem and renders them as a MIDI sketch.
package melody

import (
	"math"

	"poemlab/internal/emotion"
	"poemlab/internal/meter"
	"poemlab/internal/structure"
)

type Suggestion struct {
	TimeSignature string `json:"timeSignature"`
	Tempo         int    `json:"tempo"`
	Key           string `json:"key"`
	Mode          string `json:"mode"`
	// PhraseBreaks are line indices after which a musical phrase ends.
	PhraseBreaks []int `json:"phraseBreaks"`
	// SectionBreaks is the subset of PhraseBreaks that also close a song section.
	SectionBreaks []int `json:"sectionBreaks"`
}

type Input struct {
	Foot           meter.Foot
	FeetPerLine    int
	Emotion        emotion.Analysis
	LinesPerStanza []int
	Structure      structure.Analysis
}

// Suggest picks a time signature from the foot, a tempo inside the emotional tempo
// range, a key from sentiment, and phrase breaks from the stanza layout.
func Suggest(in Input) Suggestion {
	s := Suggestion{
		TimeSignature: TimeSignature(in.Foot, in.FeetPerLine),
		Tempo:         Tempo(in.Emotion.Tempo, in.Emotion.Arousal),
		Mode:          in.Emotion.Mode,
		PhraseBreaks:  []int{},
		SectionBreaks: []int{},
	}
	if s.Mode == "" {
		s.Mode = emotion.Mode(in.Emotion.Sentiment)
	}
	s.Key = Key(in.Emotion.Sentiment, s.Mode)

	line := 0
	for si, n := range in.LinesPerStanza {
		for j := 0; j < n; j++ {
			last := j == n-1
			if last || j%2 == 1 {
				s.PhraseBreaks = append(s.PhraseBreaks, line)
			}
			if last && in.Structure.IsTransition(si) {
				s.SectionBreaks = append(s.SectionBreaks, line)
			}
			line++
		}
	}
	return s
}

// TimeSignature: ternary feet swing in 6/8, long binary lines in 4/4, short ones in 2/4.
// Lines without a recognisable foot default to 4/4.
func TimeSignature(foot meter.Foot, feetPerLine int) string {
	switch {
	case meter.Ternary(foot):
		return "6/8"
	case foot == meter.Unknown || foot == "":
		return "4/4"
	case feetPerLine >= 4:
		return "4/4"
	default:
		return "2/4"
	}
}

// Tempo interpolates linearly inside r by arousal.
func Tempo(r emotion.TempoRange, arousal float64) int {
	if r.Max <= 0 {
		r = emotion.Tempo(arousal)
	}
	a := math.Max(0, math.Min(1, arousal))
	return int(math.Round(float64(r.Min) + float64(r.Max-r.Min)*a))
}

// Key maps sentiment strength onto a tonic: brighter keys for happier text, darker
// minor keys for sadder text.
func Key(sentiment float64, mode string) string {
	if mode == "minor" {
		switch {
		case sentiment <= -0.5:
			return "D"
		case sentiment > -0.2:
			return "E"
		default:
			return "A"
		}
	}
	switch {
	case sentiment >= 0.5:
		return "D"
	case sentiment >= 0.2:
		return "G"
	default:
		return "C"
	}
}
