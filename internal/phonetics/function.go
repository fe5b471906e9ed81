package phonetics

import "strings"

// Monosyllabic words that are normally spoken without stress inside a line.
var functionWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "but": {}, "or": {}, "nor": {}, "so": {}, "yet": {}, "if": {}, "as": {}, "than": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {}, "from": {}, "with": {},
	"through": {}, "till": {}, "while": {}, "up": {}, "out": {},
	"is": {}, "are": {}, "am": {}, "was": {}, "were": {}, "be": {}, "been": {}, "has": {}, "had": {},
	"have": {}, "do": {}, "does": {}, "did": {}, "will": {}, "shall": {}, "would": {}, "should": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"i": {}, "me": {}, "my": {}, "we": {}, "us": {}, "our": {}, "you": {}, "your": {}, "he": {},
	"him": {}, "his": {}, "she": {}, "her": {}, "it": {}, "its": {}, "they": {}, "them": {},
	"their": {}, "thy": {}, "thee": {}, "thou": {},
	"that": {}, "this": {}, "these": {}, "those": {}, "which": {}, "who": {},
}

// IsFunctionWord reports whether token is a monosyllabic function word.
func IsFunctionWord(token string) bool {
	_, ok := functionWords[normalizeToken(strings.ToLower(token))]
	return ok
}
