package preprocess

import (
	"reflect"
	"testing"
)

func TestProcessSplitsStanzas(t *testing.T) {
	text := "Roses are red,\r\nViolets are blue.\r\n\r\n\r\n  Sugar is sweet  \rAnd so are you!\n"
	p := Process(text)
	if p.StanzaCount != 2 || p.LineCount != 4 {
		t.Fatalf("expected 2 stanzas / 4 lines, got %d / %d", p.StanzaCount, p.LineCount)
	}
	if p.WordCount != 13 {
		t.Fatalf("expected 13 words, got %d", p.WordCount)
	}
	if p.Stanzas[1][0] != "Sugar is sweet" {
		t.Fatalf("expected trimmed line, got %q", p.Stanzas[1][0])
	}
	if got := p.StanzaOf(3); got != 1 {
		t.Fatalf("expected line 3 in stanza 1, got %d", got)
	}
	if got := p.StanzaOf(9); got != -1 {
		t.Fatalf("expected -1 for out of range line, got %d", got)
	}
}

func TestProcessEmpty(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		p := Process(text)
		if p.LineCount != 0 || p.StanzaCount != 0 || p.WordCount != 0 || len(p.Stanzas) != 0 {
			t.Fatalf("expected empty poem for %q, got %+v", text, p)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize(`"Don't," she said — the well-worn path...`)
	want := []Token{
		{Text: "Don't", Start: 1, End: 6},
		{Text: "she", Start: 9, End: 12},
		{Text: "said", Start: 13, End: 17},
		{Text: "the", Start: 20, End: 23},
		{Text: "well-worn", Start: 24, End: 33},
		{Text: "path", Start: 34, End: 38},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tokens\n got %+v\nwant %+v", got, want)
	}
	if words := Words("a -- b"); !reflect.DeepEqual(words, []string{"a", "b"}) {
		t.Fatalf("unexpected words %v", words)
	}
}
