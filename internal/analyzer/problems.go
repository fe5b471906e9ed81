package analyzer

import (
	"fmt"
	"math"
	"sort"

	"poemlab/internal/cliche"
	"poemlab/internal/meter"
	"poemlab/internal/singability"
)

// Lines whose syllable count strays further than this share from the metrical
// expectation are reported.
const varianceTolerance = 0.4

func findProblems(lines []AnalyzedLine, m meter.Analysis, stock cliche.Report) []Problem {
	out := []Problem{}
	expected := m.FeetPerLine * meter.FootLength(m.Foot)
	for i, line := range lines {
		if m.Foot != meter.Unknown && i < len(m.Lines) {
			lm := m.Lines[i]
			if d := lm.DeviationDensity(); d > meter.MismatchDensity && len(lm.Deviations) > 0 {
				sev := singability.Low
				if d > 0.5 {
					sev = singability.Medium
				}
				out = append(out, Problem{
					Line:        i,
					Position:    lm.Deviations[0],
					Type:        StressMismatch,
					Severity:    sev,
					Description: fmt.Sprintf("%.0f%% of syllables break the %s pattern", d*100, m.Foot),
				})
			}
		}
		for _, is := range line.Singability.Issues {
			if is.Severity != singability.High {
				continue
			}
			out = append(out, Problem{
				Line:        i,
				Position:    is.Position,
				Type:        Singability,
				Severity:    singability.High,
				Description: fmt.Sprintf("%q: %s", is.Word, is.Description),
			})
		}
		if expected > 0 && line.SyllableCount > 0 {
			diff := math.Abs(float64(line.SyllableCount - expected))
			if diff > varianceTolerance*float64(expected) {
				out = append(out, Problem{
					Line:        i,
					Type:        SyllableVariance,
					Severity:    singability.Medium,
					Description: fmt.Sprintf("%d syllables where the meter expects about %d", line.SyllableCount, expected),
				})
			}
		}
	}
	for _, f := range stock.Findings {
		desc := fmt.Sprintf("stock phrase %q", f.Text)
		if f.Kind == cliche.RhymePair {
			desc = fmt.Sprintf("worn rhyme pair %s", f.Text)
		}
		out = append(out, Problem{
			Line:        f.Line,
			Position:    wordSyllable(lines[f.Line], f.Word),
			Type:        Cliche,
			Severity:    singability.Low,
			Description: desc,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// wordSyllable converts a word index into the index of that word's first syllable.
func wordSyllable(line AnalyzedLine, word int) int {
	pos := 0
	for i := 0; i < word && i < len(line.Words); i++ {
		pos += len(line.Words[i].Syllables)
	}
	return pos
}
