// Package preprocess splits raw poem text into stanzas, lines and word tokens.
package preprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Words may carry internal apostrophes and hyphens; surrounding punctuation is dropped.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`)

// Poem is the preprocessed form of a text. Stanzas are separated by blank lines in the
// source; Lines is the flattened line list in reading order.
type Poem struct {
	Stanzas     [][]string `json:"stanzas"`
	Lines       []string   `json:"lines"`
	LineCount   int        `json:"lineCount"`
	StanzaCount int        `json:"stanzaCount"`
	WordCount   int        `json:"wordCount"`
}

// Token is a word and its rune offsets within the line.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Process splits text into stanzas and lines. Whitespace-only input yields an empty poem.
func Process(text string) Poem {
	var p Poem
	var stanza []string
	flush := func() {
		if len(stanza) > 0 {
			p.Stanzas = append(p.Stanzas, stanza)
			stanza = nil
		}
	}
	for _, raw := range strings.Split(Normalize(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		stanza = append(stanza, line)
		p.Lines = append(p.Lines, line)
		p.WordCount += len(wordRe.FindAllStringIndex(line, -1))
	}
	flush()
	p.LineCount = len(p.Lines)
	p.StanzaCount = len(p.Stanzas)
	return p
}

// Tokenize returns the words of a line with rune positions.
func Tokenize(line string) []Token {
	idx := wordRe.FindAllStringIndex(line, -1)
	out := make([]Token, 0, len(idx))
	for _, m := range idx {
		start := utf8.RuneCountInString(line[:m[0]])
		text := line[m[0]:m[1]]
		out = append(out, Token{Text: text, Start: start, End: start + utf8.RuneCountInString(text)})
	}
	return out
}

// Words returns the bare word strings of a line.
func Words(line string) []string {
	return wordRe.FindAllString(line, -1)
}

// StanzaOf maps a flattened line index to its stanza index, or -1 when out of range.
func (p Poem) StanzaOf(line int) int {
	n := 0
	for i, s := range p.Stanzas {
		n += len(s)
		if line < n {
			return i
		}
	}
	return -1
}
