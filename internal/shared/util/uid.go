package util

import (
	"crypto/rand"
	"math/big"
)

const (
	// UIDLength is the length of public row identifiers.
	UIDLength   = 7
	uidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var uidMax = big.NewInt(int64(len(uidAlphabet)))

// NewUID returns a random identifier of UIDLength characters from [a-zA-Z0-9].
func NewUID() string {
	return RandomString(UIDLength, uidAlphabet)
}

// RandomString draws n characters uniformly from alphabet using crypto/rand.
func RandomString(n int, alphabet string) string {
	max := uidMax
	if alphabet != uidAlphabet {
		max = big.NewInt(int64(len(alphabet)))
	}
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
