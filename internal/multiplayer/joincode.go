package multiplayer

import (
	"crypto/rand"
	"errors"
	"strings"
)

// CodeLength is the number of characters in a join code.
const CodeLength = 6

// codeAlphabet is Crockford base32: no I, L, O or U.
const codeAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ErrInvalidCode is returned for input that does not normalize to a join code.
var ErrInvalidCode = errors.New("multiplayer: invalid join code")

// NewJoinCode generates a random code a human can read aloud and type.
func NewJoinCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := make([]byte, CodeLength)
	for i, v := range b {
		// 256 is a multiple of 32, so the mapping is uniform.
		code[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(code), nil
}

// NormalizeCode turns what a player typed into a dialable code.
// Separators are dropped and look-alike letters map to their digits.
func NormalizeCode(input string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		switch r {
		case ' ', '-', '\t':
			continue
		case 'O':
			r = '0'
		case 'I', 'L':
			r = '1'
		}
		if r > 0x7f || !strings.ContainsRune(codeAlphabet, r) {
			return "", ErrInvalidCode
		}
		b.WriteRune(r)
	}
	if b.Len() != CodeLength {
		return "", ErrInvalidCode
	}
	return b.String(), nil
}
