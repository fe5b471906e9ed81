package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poemlab/internal/meter"
	"poemlab/internal/phonetics"
	"poemlab/internal/rhyme"
)

func sonnetInput() Input {
	return Input{
		LineCount:       14,
		StanzaCount:     1,
		LinesPerStanza:  []int{14},
		Foot:            meter.Iamb,
		MeterName:       "iambic pentameter",
		FeetPerLine:     5,
		MeterConfidence: 0.98,
		Scheme:          "ABABCDCDEFEFGG",
		Syllables:       []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
		Regularity:      1,
	}
}

func confidenceOf(t *testing.T, in Input, typ Type) float64 {
	t.Helper()
	for _, d := range Registry {
		if d.Type == typ {
			c, _ := d.Check(in)
			return c
		}
	}
	t.Fatalf("no definition for %s", typ)
	return 0
}

func TestDetectShakespeareanSonnet(t *testing.T) {
	in := sonnetInput()
	res := Detect(in)
	require.Equal(t, ShakespeareanSonnet, res.Type)
	assert.Equal(t, CategorySonnet, res.Category)
	assert.True(t, res.Evidence.LineCount)
	assert.True(t, res.Evidence.RhymeScheme)
	assert.True(t, res.Evidence.Meter)
	assert.NotEmpty(t, res.Evidence.Notes)

	assert.Greater(t, res.Confidence, confidenceOf(t, in, Sonnet))
	assert.Greater(t, res.Confidence, confidenceOf(t, in, PetrarchanSonnet))
	assert.LessOrEqual(t, len(res.Alternatives), 3)
	for _, alt := range res.Alternatives {
		assert.GreaterOrEqual(t, alt.Confidence, 0.3)
		assert.LessOrEqual(t, alt.Confidence, res.Confidence)
	}
}

func TestDetectPetrarchanSonnet(t *testing.T) {
	in := sonnetInput()
	in.Scheme = "ABBAABBACDECDE"
	in.LinesPerStanza = []int{8, 6}
	in.StanzaCount = 2
	assert.Equal(t, PetrarchanSonnet, Detect(in).Type)
}

func TestDetectHaiku(t *testing.T) {
	in := Input{
		LineCount:       3,
		StanzaCount:     1,
		LinesPerStanza:  []int{3},
		Foot:            meter.Trochee,
		MeterName:       "trochaic trimeter",
		FeetPerLine:     3,
		MeterConfidence: 0.65,
		Scheme:          "ABC",
		Syllables:       []int{5, 7, 5},
		Regularity:      1 / (1 + 8.0/9.0),
	}
	res := Detect(in)
	require.Equal(t, Haiku, res.Type)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	require.NotEmpty(t, res.Alternatives)
	assert.Greater(t, res.Confidence, res.Alternatives[0].Confidence)
}

func TestDetectLimerick(t *testing.T) {
	in := Input{
		LineCount:       5,
		StanzaCount:     1,
		LinesPerStanza:  []int{5},
		Foot:            meter.Anapest,
		FeetPerLine:     3,
		MeterConfidence: 0.8,
		Scheme:          "AABBA",
		Syllables:       []int{8, 9, 5, 6, 9},
		Regularity:      0.2,
	}
	assert.Equal(t, Limerick, Detect(in).Type)
}

func TestDetectVillanelle(t *testing.T) {
	in := Input{
		LineCount:       19,
		StanzaCount:     6,
		LinesPerStanza:  []int{3, 3, 3, 3, 3, 4},
		Foot:            meter.Iamb,
		FeetPerLine:     5,
		MeterConfidence: 0.9,
		Scheme:          "ABAABAABAABAABAABAA",
		Regularity:      1,
	}
	assert.Equal(t, Villanelle, Detect(in).Type)
}

func TestDetectFreeVerse(t *testing.T) {
	in := Input{
		LineCount:       6,
		StanzaCount:     2,
		LinesPerStanza:  []int{4, 2},
		Foot:            meter.Unknown,
		MeterName:       "free verse",
		MeterConfidence: 0.4,
		Scheme:          "ABCDEF",
		Syllables:       []int{3, 12, 7, 15, 4, 9},
		Regularity:      0.05,
	}
	res := Detect(in)
	assert.Equal(t, FreeVerse, res.Type)
	assert.Equal(t, CategoryOpen, res.Category)
}

func TestFreeVerseDiscountedUnderStrongMeter(t *testing.T) {
	in := sonnetInput()
	in.Scheme = "ABCDEFGHIJKLMN"
	withMeter := confidenceOf(t, in, FreeVerse)

	in.Foot = meter.Unknown
	in.MeterConfidence = 0.4
	without := confidenceOf(t, in, FreeVerse)
	assert.Less(t, withMeter, without)

	// Unrhymed pentameter is blank verse, not free verse.
	in = sonnetInput()
	in.Scheme = "ABCDEFGHIJKLMN"
	assert.Equal(t, BlankVerse, Detect(in).Type)
}

func TestDetectEmpty(t *testing.T) {
	res := Detect(Input{})
	assert.Equal(t, Unknown, res.Type)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Empty(t, res.Alternatives)
}

func TestConfidencesInRange(t *testing.T) {
	inputs := []Input{sonnetInput(), {LineCount: 1, StanzaCount: 1, LinesPerStanza: []int{1}, Scheme: "A", Syllables: []int{40}}}
	for _, in := range inputs {
		for _, d := range Registry {
			c, ev := d.Check(in)
			assert.GreaterOrEqual(t, c, 0.0, d.Type)
			assert.LessOrEqual(t, c, 1.0, d.Type)
			assert.NotNil(t, ev.Notes, d.Type)
		}
	}
}

func TestTiesBreakByRegistryPriority(t *testing.T) {
	saved := Registry
	t.Cleanup(func() { Registry = saved })

	same := func(Input) (float64, Evidence) { return 0.5, Evidence{Notes: []string{}} }
	Registry = []Definition{
		{Type: "first", Category: CategoryFixed, Check: same},
		{Type: "second", Category: CategoryFixed, Check: same},
		{Type: "third", Category: CategoryFixed, Check: same},
	}
	res := Detect(Input{LineCount: 1})
	assert.Equal(t, Type("first"), res.Type)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, Type("second"), res.Alternatives[0].Type)
}

func TestRegistryOrder(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, len(Registry))
	pos := map[Type]int{}
	for i, d := range defs {
		assert.Equal(t, i, d.Priority)
		pos[d.Type] = i
	}
	assert.Less(t, pos[ShakespeareanSonnet], pos[Haiku])
	assert.Less(t, pos[Haiku], pos[Limerick])
	assert.Less(t, pos[Limerick], pos[Ballad])
	assert.Less(t, pos[Ballad], pos[Sonnet])
	assert.Equal(t, len(defs)-1, pos[FreeVerse])
}

func TestSchemeF1(t *testing.T) {
	assert.Equal(t, 1.0, schemeMatch("ABAB", "CDCD"))
	assert.Equal(t, 0.0, schemeMatch("ABAB", "AABB"))
	assert.Equal(t, 0.0, schemeMatch("ABAB", "ABABAB"))
	assert.Equal(t, 1.0, schemeMatch("ABC", "XYZ"))
	assert.Equal(t, []int{0, 1, 0, 1, 2, 3, 2, 3}, repeatUnit("ABAB", 8))
	assert.Equal(t, []int{0, 1, 0, 1, 2, 1, 2}, terzaRima(7))
}

func TestLongSchemesStayUnrhymed(t *testing.T) {
	scheme := rhyme.Analyze(make([][]phonetics.Word, 70), rhyme.Options{}).Scheme
	assert.Equal(t, 1.0, unrhymed(scheme))
	assert.Len(t, groups(scheme), 70)
	assert.Equal(t, 69, groups(scheme)[69])
}
