// Package shortid generates and validates the 22-character opaque
// identifiers used as upload and file ids. An id is a 128-bit UUID encoded
// with a fixed URL-safe alphabet, so it is safe to use both in URLs and as
// a directory name.
package shortid

import (
	"math/big"
	"regexp"

	"github.com/google/uuid"
)

// Alphabet is the 57-character URL-safe alphabet. It omits the easily
// confused characters 0, 1, I, O and l.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Length of every generated identifier.
const Length = 22

var idPattern = regexp.MustCompile(`^[` + Alphabet + `]{22}$`)

// New returns a fresh 22-character identifier.
func New() string {
	u := uuid.New()
	return encode(u[:])
}

// Valid reports whether id has the exact shape of a generated identifier:
// 22 characters, all drawn from Alphabet.
func Valid(id string) bool {
	return idPattern.MatchString(id)
}

func encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(int64(len(Alphabet)))
	rem := new(big.Int)

	buf := make([]byte, 0, Length)
	for n.Sign() > 0 {
		n.DivMod(n, base, rem)
		buf = append(buf, Alphabet[rem.Int64()])
	}
	// Left-pad short encodings so every id is exactly Length characters.
	for len(buf) < Length {
		buf = append(buf, Alphabet[0])
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
