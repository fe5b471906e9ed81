package analyzer

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// ContentHash is the hex BLAKE3 digest of text truncated to 16 bytes. Any change,
// whitespace included, changes the hash.
func ContentHash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:16])
}
