package phonetics

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

//go:embed cmudict.txt
var defaultDictData []byte

// Lookup is the dictionary collaborator consumed by the resolver and sound analyzer.
type Lookup interface {
	Lookup(word string) ([]string, bool)
}

// Dictionary holds word-to-pronunciation mappings in ARPAbet.
type Dictionary struct {
	Entries map[string][][]string // word -> alternative pronunciations
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{Entries: make(map[string][][]string)}
}

// Add appends a pronunciation for word. Words are stored lowercase.
func (d *Dictionary) Add(word string, phonemes []string) {
	word = strings.ToLower(word)
	d.Entries[word] = append(d.Entries[word], phonemes)
}

// Load reads a CMU-format pronunciation dictionary.
// Format: WORD<spaces>PH1 PH2 ...; ";;;" starts a comment; WORD(2) marks an alternate.
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and phonemes, got %q", lineNum, line)
		}

		word := fields[0]
		if i := strings.IndexByte(word, '('); i > 0 {
			word = word[:i]
		}
		phonemes := make([]string, 0, len(fields)-1)
		for _, p := range fields[1:] {
			p = strings.ToUpper(p)
			if !IsVowel(p) && !IsConsonant(p) {
				return nil, fmt.Errorf("line %d: unknown phoneme %q", lineNum, p)
			}
			phonemes = append(phonemes, p)
		}
		d.Add(word, phonemes)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// Default returns the embedded dictionary. It is parsed once and shared read-only.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		d, err := Load(bytes.NewReader(defaultDictData))
		if err != nil {
			panic(fmt.Sprintf("embedded dictionary: %v", err))
		}
		defaultDict = d
	})
	return defaultDict
}

// Lookup returns the first pronunciation for a lowercase word.
func (d *Dictionary) Lookup(word string) ([]string, bool) {
	if d == nil {
		return nil, false
	}
	entries := d.Entries[strings.ToLower(word)]
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0], true
}

// Merge copies every entry of other into d, other's pronunciations first.
func (d *Dictionary) Merge(other *Dictionary) {
	for w, prons := range other.Entries {
		d.Entries[w] = append(append([][]string{}, prons...), d.Entries[w]...)
	}
}

// Words returns all words in the dictionary, sorted.
func (d *Dictionary) Words() []string {
	words := make([]string, 0, len(d.Entries))
	for w := range d.Entries {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
