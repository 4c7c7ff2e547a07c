package corepipeline

import (
	"crypto/rand"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID produces an identifier of the form "<prefix>_<8-char-alphanumeric>",
// e.g. "run_AbCd1234".
func GenerateID(prefix string) string {
	suffix := make([]byte, 8)
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on a fixed-size buffer only fails if the OS
		// entropy source is unavailable, which we treat as unrecoverable.
		panic("corepipeline: failed to read random bytes: " + err.Error())
	}
	for i, b := range buf {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return prefix + "_" + string(suffix)
}
