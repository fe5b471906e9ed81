package phonetics

import "strings"

// ARPAbet vowel bases. Dictionary vowels carry a trailing stress digit (AH0, EY1, ER2).
var vowelBases = map[string]struct{}{
	"AA": {}, "AE": {}, "AH": {}, "AO": {}, "AW": {}, "AY": {},
	"EH": {}, "ER": {}, "EY": {}, "IH": {}, "IY": {},
	"OW": {}, "OY": {}, "UH": {}, "UW": {},
}

var consonants = map[string]struct{}{
	"B": {}, "CH": {}, "D": {}, "DH": {}, "F": {}, "G": {}, "HH": {}, "JH": {},
	"K": {}, "L": {}, "M": {}, "N": {}, "NG": {}, "P": {}, "R": {}, "S": {},
	"SH": {}, "T": {}, "TH": {}, "V": {}, "W": {}, "Y": {}, "Z": {}, "ZH": {},
}

// Base strips the stress digit from a phoneme: "EY1" -> "EY".
func Base(phoneme string) string {
	return strings.TrimRight(strings.ToUpper(phoneme), "012")
}

// IsVowel reports whether the phoneme is a vowel, with or without stress digit.
func IsVowel(phoneme string) bool {
	_, ok := vowelBases[Base(phoneme)]
	return ok
}

// IsConsonant reports whether the phoneme is an ARPAbet consonant.
func IsConsonant(phoneme string) bool {
	_, ok := consonants[strings.ToUpper(phoneme)]
	return ok
}

// StressDigit returns the stress level carried by a vowel phoneme. ok is false for
// consonants and for vowels written without a digit.
func StressDigit(phoneme string) (stress int, ok bool) {
	if phoneme == "" || !IsVowel(phoneme) {
		return 0, false
	}
	switch phoneme[len(phoneme)-1] {
	case '0':
		return 0, true
	case '1':
		return 1, true
	case '2':
		return 2, true
	}
	return 0, false
}
