package phonetics

import "strings"

var stressedPrefixes = []string{"be", "de", "re", "un", "in", "ex", "con", "com", "dis", "pre", "pro", "mis", "a"}

// Suffixes that pull primary stress onto the syllable right before them.
var penultimateSuffixes = []string{"tion", "sion", "cian", "ic", "ial", "ian", "ious"}

// Suffixes that put primary stress two syllables before the end.
var antepenultimateSuffixes = []string{"ity", "ical", "ify", "ogy", "graphy", "ety"}

func isVowelLetter(r byte) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func letters(word string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EstimateSyllables counts syllables from spelling: vowel clusters, minus a silent
// trailing "e" (but not consonant+"le"), with a minimum of one.
func EstimateSyllables(word string) int {
	w := letters(word)
	if w == "" {
		return 1
	}
	count := 0
	prevVowel := false
	for i := 0; i < len(w); i++ {
		v := isVowelLetter(w[i])
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if n := len(w); n > 2 && w[n-1] == 'e' && !isVowelLetter(w[n-2]) {
		consonantLE := w[n-2] == 'l' && n > 3 && !isVowelLetter(w[n-3])
		if !consonantLE && count > 1 {
			count--
		}
	}
	if strings.HasSuffix(w, "ed") && len(w) > 3 && count > 1 {
		if c := w[len(w)-3]; c != 't' && c != 'd' && !isVowelLetter(c) {
			count--
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// EstimateStress guesses a stress string of length syllables using common English
// placement: unstressed prefixes push stress to the second syllable, and a handful of
// suffixes fix it relative to the end of the word.
func EstimateStress(word string, syllables int) string {
	if syllables <= 0 {
		return ""
	}
	if syllables == 1 {
		return "1"
	}
	w := letters(word)
	primary := 0
	switch {
	case hasAnySuffix(w, antepenultimateSuffixes) && syllables >= 3:
		primary = syllables - 3
	case hasAnySuffix(w, penultimateSuffixes):
		primary = syllables - 2
	case hasPrefix(w) && !hasAnySuffix(w, []string{"er", "y", "ing"}):
		primary = 1
	}
	b := make([]byte, syllables)
	for i := range b {
		b[i] = '0'
	}
	b[primary] = '1'
	if syllables >= 4 && primary >= 2 {
		b[primary-2] = '2'
	}
	return string(b)
}

func hasAnySuffix(w string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) && len(w) > len(s)+1 {
			return true
		}
	}
	return false
}

func hasPrefix(w string) bool {
	for _, p := range stressedPrefixes {
		if strings.HasPrefix(w, p) && len(w) > len(p)+2 && !isVowelLetter(w[len(p)]) {
			return true
		}
	}
	return false
}
