package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeArc(t *testing.T) {
	a := Analyze([][]string{
		{"Joy and laughter fill the morning", "We dance beneath the golden sun!"},
		{"Now grief and sorrow fill the night", "The cold dark grave is lonely"},
	})
	require.Len(t, a.Arc, 2)
	assert.Greater(t, a.Arc[0].Sentiment, 0.5)
	assert.Less(t, a.Arc[1].Sentiment, -0.4)
	assert.Equal(t, []string{"joy", "laughter", "morning", "dance", "golden", "sun"}, a.Arc[0].Keywords)
	assert.Greater(t, a.Arc[0].Arousal, a.Arc[1].Arousal)

	assert.GreaterOrEqual(t, a.Sentiment, -1.0)
	assert.LessOrEqual(t, a.Sentiment, 1.0)
	assert.LessOrEqual(t, len(a.DominantEmotions), 3)
	assert.Equal(t, []string{"joy", "sadness", "fear"}, a.DominantEmotions)
}

func TestNegationFlipsValence(t *testing.T) {
	plain := Analyze([][]string{{"I am happy"}})
	negated := Analyze([][]string{{"I am not happy"}})
	assert.Greater(t, plain.Sentiment, 0.0)
	assert.Less(t, negated.Sentiment, 0.0)
	assert.Equal(t, "minor", negated.Mode)
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t, "major", Mode(0))
	assert.Equal(t, TempoRange{Min: 60, Max: 80}, Tempo(0.1))
	assert.Equal(t, TempoRange{Min: 110, Max: 140}, Tempo(0.9))
	assert.Equal(t, "high", Register(0.5, 0.8))
	assert.Equal(t, "low", Register(-0.6, 0.5))
	assert.Equal(t, "mid", Register(0.2, 0.5))
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)
	assert.Empty(t, a.Arc)
	assert.Equal(t, 0.0, a.Sentiment)
	assert.Equal(t, 0.0, a.Arousal)
	assert.Equal(t, "major", a.Mode)
}

func TestParseLexiconSkipsMalformedRows(t *testing.T) {
	m := parseLexicon("# header\nok\t0.5\t0.2\tjoy\nbad\tx\t0.1\tjoy\nshort\t0.1\n")
	assert.Len(t, m, 1)
	assert.Equal(t, Entry{Valence: 0.5, Arousal: 0.2, Emotion: "joy"}, m["ok"])
}
