package phonetics

import "strings"

// Resolver turns word tokens into syllabified words, preferring the dictionary and
// falling back to spelling heuristics on a miss.
type Resolver struct {
	dict Lookup
}

// NewResolver wraps a dictionary. A nil dictionary resolves every word heuristically.
func NewResolver(dict Lookup) *Resolver {
	return &Resolver{dict: dict}
}

// Resolve syllabifies a single token. It never fails: unknown words are estimated.
func (r *Resolver) Resolve(token string) Word {
	if phonemes, ok := r.LookupPhonemes(token); ok {
		return Word{Text: token, Syllables: Syllabify(phonemes)}
	}
	return estimateWord(token)
}

// LookupPhonemes resolves a token against the dictionary only. Possessives and
// contractions ending in 's fall back to the stem plus Z; hyphenated compounds resolve
// when every part is known.
func (r *Resolver) LookupPhonemes(token string) ([]string, bool) {
	if r == nil || r.dict == nil {
		return nil, false
	}
	word := normalizeToken(token)
	if word == "" {
		return nil, false
	}
	if p, ok := r.dict.Lookup(word); ok && countVowels(p) > 0 {
		return p, true
	}
	if stem, ok := strings.CutSuffix(word, "'s"); ok {
		if p, ok := r.dict.Lookup(stem); ok {
			return append(append([]string{}, p...), "Z"), true
		}
	}
	if trimmed := strings.ReplaceAll(word, "'", ""); trimmed != word {
		if p, ok := r.dict.Lookup(trimmed); ok {
			return p, true
		}
	}
	if strings.Contains(word, "-") {
		var out []string
		for _, part := range strings.Split(word, "-") {
			if part == "" {
				continue
			}
			p, ok := r.dict.Lookup(part)
			if !ok {
				return nil, false
			}
			out = append(out, p...)
		}
		if len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

func estimateWord(token string) Word {
	n := EstimateSyllables(token)
	pattern := EstimateStress(token, n)
	syllables := make([]Syllable, n)
	for i := range syllables {
		syllables[i] = Syllable{Stress: int(pattern[i] - '0')}
	}
	return Word{Text: token, Syllables: syllables, Estimated: true}
}

func normalizeToken(token string) string {
	w := strings.ToLower(strings.TrimSpace(token))
	w = strings.NewReplacer("’", "'", "‘", "'").Replace(w)
	return strings.Trim(w, "'-")
}

func countVowels(phonemes []string) int {
	n := 0
	for _, p := range phonemes {
		if IsVowel(p) {
			n++
		}
	}
	return n
}
