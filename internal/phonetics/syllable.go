package phonetics

import "strings"

// Syllable is one onset-vowel-coda unit. Estimated syllables have no phonemes and an
// empty Vowel; only Stress is meaningful for them.
type Syllable struct {
	Phonemes []string `json:"phonemes"`
	Onset    []string `json:"onset,omitempty"`
	Vowel    string   `json:"vowel"`
	Coda     []string `json:"coda,omitempty"`
	Stress   int      `json:"stress"`
	IsOpen   bool     `json:"isOpen"`
}

// Word is a token resolved to syllables. Estimated is true when the dictionary had no
// entry and the syllables came from spelling heuristics.
type Word struct {
	Text      string     `json:"text"`
	Syllables []Syllable `json:"syllables"`
	Estimated bool       `json:"estimated"`
}

// StressPattern returns the dictionary (or estimated) stress digits of the word.
func (w Word) StressPattern() string {
	var b strings.Builder
	for _, s := range w.Syllables {
		b.WriteByte(byte('0' + s.Stress))
	}
	return b.String()
}

// Phonemes returns the flattened phoneme sequence; nil for estimated words.
func (w Word) Phonemes() []string {
	if w.Estimated {
		return nil
	}
	var out []string
	for _, s := range w.Syllables {
		out = append(out, s.Phonemes...)
	}
	return out
}

// Syllabify groups a phoneme sequence into syllables. Every vowel opens a syllable;
// consonants before the first vowel form its onset and the consonants following a vowel
// up to the next vowel form that syllable's coda.
func Syllabify(phonemes []string) []Syllable {
	var out []Syllable
	var onset []string
	for _, p := range phonemes {
		if IsVowel(p) {
			stress, _ := StressDigit(p)
			syl := Syllable{
				Onset:  onset,
				Vowel:  p,
				Stress: stress,
			}
			syl.Phonemes = append(append([]string{}, onset...), p)
			out = append(out, syl)
			onset = nil
			continue
		}
		if len(out) == 0 {
			onset = append(onset, p)
			continue
		}
		last := &out[len(out)-1]
		last.Coda = append(last.Coda, p)
		last.Phonemes = append(last.Phonemes, p)
	}
	for i := range out {
		out[i].IsOpen = len(out[i].Coda) == 0
	}
	return out
}
