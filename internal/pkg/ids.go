package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	gameIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	gameIDLength   = 8
)

// GenerateGameID - generates a short random identifier for a game.
func GenerateGameID() (string, error) {
	alphabetSize := big.NewInt(int64(len(gameIDAlphabet)))

	id := make([]byte, gameIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}

		id[i] = gameIDAlphabet[n.Int64()]
	}

	return string(id), nil
}

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
