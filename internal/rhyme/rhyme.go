// Package rhyme infers rhyme schemes from line-ending sounds.
package rhyme

import (
	"strings"

	"poemlab/internal/phonetics"
)

type Type string

const (
	Perfect    Type = "perfect"
	Slant      Type = "slant"
	Assonance  Type = "assonance"
	Consonance Type = "consonance"
	none       Type = ""
)

// weakness orders types from closest to loosest; a group takes its weakest link.
var weakness = map[Type]int{Perfect: 0, Slant: 1, Assonance: 2, Consonance: 3}

// Scheme letters, in order of first appearance. Poems with more distinct rhyme sounds
// than letters continue from U+0100 so every group keeps a rune of its own.
const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const surrogateStart, surrogateEnd = 0xD800, 0xE000

// label returns the scheme letter of the n-th group.
func label(n int) rune {
	if n < len(letters) {
		return rune(letters[n])
	}
	r := rune(0x100 + n - len(letters))
	if r >= surrogateStart {
		r += surrogateEnd - surrogateStart
	}
	return r
}

// Vowels close enough in quality to form a slant rhyme over an identical coda.
var vowelFamilies = [][]string{
	{"IH", "IY"},
	{"EH", "AE", "EY"},
	{"AA", "AO", "AH"},
	{"UH", "UW"},
	{"OW", "AO"},
	{"AY", "OY"},
}

// Options tune how permissive scheme grouping is. By default only perfect and slant
// rhymes share a letter; Loose also merges assonance and consonance.
type Options struct {
	Loose bool
}

// Group is a set of lines sharing a scheme letter.
type Group struct {
	Letter   string   `json:"letter"`
	Lines    []int    `json:"lines"`
	Type     Type     `json:"type"`
	EndWords []string `json:"endWords"`
}

// InternalRhyme is a pair of word positions within one line sharing their stressed vowel.
type InternalRhyme struct {
	Line   int    `json:"line"`
	First  int    `json:"first"`
	Second int    `json:"second"`
	Sound  string `json:"sound"`
}

type Analysis struct {
	Scheme   string          `json:"scheme"`
	Groups   []Group         `json:"groups"`
	Internal []InternalRhyme `json:"internal"`
}

// Tail is the rhyming part of a word: its last stressed vowel and everything after it.
// Words without dictionary data fall back to a spelling tail, which only ever matches
// other spelling tails.
type Tail struct {
	Vowel   string
	Coda    []string
	Spelled bool
}

func (t Tail) key() string {
	k := t.Vowel + " " + strings.Join(t.Coda, " ")
	if t.Spelled {
		return "s:" + k
	}
	return k
}

// TailOf extracts the rhyme tail of a resolved word.
func TailOf(w phonetics.Word) Tail {
	phonemes := w.Phonemes()
	if len(phonemes) == 0 {
		return spelledTail(w.Text)
	}
	at := -1
	for i := len(phonemes) - 1; i >= 0; i-- {
		if s, ok := phonetics.StressDigit(phonemes[i]); ok && s > 0 {
			at = i
			break
		}
	}
	if at < 0 {
		at = lastVowel(phonemes)
	}
	if at < 0 {
		return spelledTail(w.Text)
	}
	t := Tail{Vowel: phonetics.Base(phonemes[at])}
	for _, p := range phonemes[at+1:] {
		t.Coda = append(t.Coda, phonetics.Base(p))
	}
	return t
}

func lastVowel(phonemes []string) int {
	for i := len(phonemes) - 1; i >= 0; i-- {
		if phonetics.IsVowel(phonemes[i]) {
			return i
		}
	}
	return -1
}

func isVowelLetter(r byte) bool {
	return strings.IndexByte("aeiouy", r) >= 0
}

func spelledTail(word string) Tail {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	w := b.String()
	if n := len(w); n > 2 && w[n-1] == 'e' && !isVowelLetter(w[n-2]) {
		w = w[:n-1]
	}
	end := len(w)
	for end > 0 && !isVowelLetter(w[end-1]) {
		end--
	}
	start := end
	for start > 0 && isVowelLetter(w[start-1]) {
		start--
	}
	t := Tail{Vowel: w[start:end], Spelled: true}
	for i := end; i < len(w); i++ {
		t.Coda = append(t.Coda, w[i:i+1])
	}
	return t
}

// Classify compares two tails and returns how they rhyme, or "" when they don't.
func Classify(a, b Tail) Type {
	if a.Spelled != b.Spelled || (a.Vowel == "" && len(a.Coda) == 0) || (b.Vowel == "" && len(b.Coda) == 0) {
		return none
	}
	if a.key() == b.key() {
		return Perfect
	}
	sameCoda := len(a.Coda) > 0 && equal(a.Coda, b.Coda)
	if !a.Spelled {
		if a.Vowel == b.Vowel && len(a.Coda) > 0 && len(a.Coda) == len(b.Coda) &&
			equal(a.Coda[:len(a.Coda)-1], b.Coda[:len(b.Coda)-1]) {
			return Slant
		}
		if sameCoda && sameFamily(a.Vowel, b.Vowel) {
			return Slant
		}
	}
	if a.Vowel != "" && a.Vowel == b.Vowel {
		return Assonance
	}
	if sameCoda {
		return Consonance
	}
	return none
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameFamily(a, b string) bool {
	for _, fam := range vowelFamilies {
		var hasA, hasB bool
		for _, v := range fam {
			hasA = hasA || v == a
			hasB = hasB || v == b
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

func accepted(t Type, opts Options) bool {
	switch t {
	case Perfect, Slant:
		return true
	case Assonance, Consonance:
		return opts.Loose
	}
	return false
}

type group struct {
	letter rune
	first  Tail
	typ    Type
	lines  []int
	words  []string
}

// Analyze assigns one scheme letter per line from each line's final word and collects
// internal rhymes. Lines without words get a letter of their own.
func Analyze(lines [][]phonetics.Word, opts Options) Analysis {
	var groups []*group
	exact := map[string]*group{}
	scheme := make([]rune, len(lines))

	for i, words := range lines {
		if len(words) == 0 {
			g := &group{letter: label(len(groups)), typ: Perfect}
			groups = append(groups, g)
			g.lines = append(g.lines, i)
			g.words = append(g.words, "")
			scheme[i] = g.letter
			continue
		}
		end := words[len(words)-1]
		tail := TailOf(end)
		g, ok := exact[tail.key()]
		if !ok {
			best, bestType := (*group)(nil), none
			for _, cand := range groups {
				t := Classify(cand.first, tail)
				if !accepted(t, opts) {
					continue
				}
				if best == nil || weakness[t] < weakness[bestType] {
					best, bestType = cand, t
				}
			}
			if best != nil {
				g = best
				if weakness[bestType] > weakness[g.typ] {
					g.typ = bestType
				}
			} else {
				g = &group{letter: label(len(groups)), first: tail, typ: Perfect}
				groups = append(groups, g)
			}
			exact[tail.key()] = g
		}
		g.lines = append(g.lines, i)
		g.words = append(g.words, strings.ToLower(end.Text))
		scheme[i] = g.letter
	}

	a := Analysis{Scheme: string(scheme), Groups: []Group{}, Internal: []InternalRhyme{}}
	for _, g := range groups {
		if len(g.lines) < 2 {
			continue
		}
		a.Groups = append(a.Groups, Group{
			Letter:   string(g.letter),
			Lines:    g.lines,
			Type:     g.typ,
			EndWords: g.words,
		})
	}
	for i, words := range lines {
		a.Internal = append(a.Internal, internalRhymes(i, words)...)
	}
	return a
}

func internalRhymes(line int, words []phonetics.Word) []InternalRhyme {
	var out []InternalRhyme
	vowels := make([]string, len(words))
	for i, w := range words {
		if w.Estimated || phonetics.IsFunctionWord(w.Text) {
			continue
		}
		vowels[i] = TailOf(w).Vowel
	}
	for i := 0; i < len(words); i++ {
		if vowels[i] == "" {
			continue
		}
		for j := i + 1; j < len(words); j++ {
			if vowels[j] != vowels[i] || strings.EqualFold(words[i].Text, words[j].Text) {
				continue
			}
			out = append(out, InternalRhyme{Line: line, First: i, Second: j, Sound: vowels[i]})
		}
	}
	return out
}
