package sound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poemlab/internal/phonetics"
)

func resolver() *phonetics.Resolver {
	return phonetics.NewResolver(phonetics.Default())
}

func TestPeterPiperAlliteration(t *testing.T) {
	occs := AnalyzeLine(0, "Peter Piper picked a peck of pickled peppers", resolver())

	var found *Occurrence
	for i := range occs {
		if occs[i].Type == Alliteration && occs[i].Sound == "P" {
			found = &occs[i]
		}
	}
	require.NotNil(t, found, "expected /p/ alliteration")
	assert.GreaterOrEqual(t, len(found.Words), 3)
	assert.Equal(t, []string{"Peter", "Piper", "picked", "peck", "pickled", "peppers"}, found.Words)
	assert.Equal(t, []int{0, 6, 12, 21, 29, 37}, found.Positions)
	assert.Greater(t, found.Strength, 0.6)

	for _, o := range occs {
		assert.GreaterOrEqual(t, o.Strength, 0.0)
		assert.LessOrEqual(t, o.Strength, 1.0)
	}
}

func TestCommonConsonantsNeedThreeWords(t *testing.T) {
	// "sun" and "sea" share only S, a common consonant, in two words.
	for _, o := range AnalyzeLine(0, "sun sea", resolver()) {
		if o.Type == Consonance {
			assert.NotEqual(t, "S", o.Sound)
		}
	}

	occs := AnalyzeLine(0, "sun sea sky", resolver())
	var s *Occurrence
	for i := range occs {
		if occs[i].Type == Consonance && occs[i].Sound == "S" {
			s = &occs[i]
		}
	}
	require.NotNil(t, s)
	assert.InDelta(t, Strength(s.Positions, len("sun sea sky"))*commonPenalty, s.Strength, 1e-9)
}

func TestUnknownWordsAreSkipped(t *testing.T) {
	occs := AnalyzeLine(0, "glimmerous glorpish", resolver())
	assert.Empty(t, occs)
}

func TestStrength(t *testing.T) {
	assert.Equal(t, 0.0, Strength([]int{3}, 10))
	near := Strength([]int{0, 2}, 40)
	far := Strength([]int{0, 38}, 40)
	assert.Greater(t, near, far)
	assert.InDelta(t, 1.0, Strength([]int{0, 1, 2, 3, 4, 5}, 100), 0.05)
}

func TestAnalyzeSummary(t *testing.T) {
	a := Analyze([]string{"Peter Piper picked a peck of pickled peppers", "the moon is bright"}, resolver())
	assert.Positive(t, a.Summary.Alliteration)
	assert.Equal(t, "P", a.Summary.TopAlliterations[0])
	assert.LessOrEqual(t, len(a.Summary.TopAssonances), 3)
	assert.LessOrEqual(t, a.Summary.Density, 1.0)

	empty := Analyze(nil, resolver())
	assert.Empty(t, empty.Occurrences)
	assert.Equal(t, 0.0, empty.Summary.Density)
}
