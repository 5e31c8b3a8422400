package accesscode

import (
	"crypto/rand"
	"fmt"
)

// Alphabet excludes easily confused characters (0/O, 1/I/L) so codes can be
// read out loud and typed by hand.
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const DefaultLength = 6

// New returns a random access code of the given length. Collisions are
// possible by design; callers retry the insert on unique violations.
func New(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("accesscode: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(out), nil
}
