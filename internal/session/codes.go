package session

import (
	"crypto/rand"
	"math/big"
)

const (
	codeAlphabet          = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeInitialLength     = 1
	codeMaxLength         = 8
	codeCollisionsPerGrow = 10
)

// generateGameCode produces a fresh game code not present in taken.
// It starts at codeInitialLength and, after enough collisions in a
// row, grows by one character at a time up to codeMaxLength.
func generateGameCode(taken map[string]bool) (string, error) {
	length := codeInitialLength
	collisions := 0
	for {
		code, err := randomCode(length)
		if err != nil {
			return "", err
		}
		if !taken[code] {
			return code, nil
		}
		collisions++
		if collisions >= codeCollisionsPerGrow && length < codeMaxLength {
			length++
			collisions = 0
		}
	}
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
