package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
)

type Difficulty string

const (
	EasyDifficulty   Difficulty = "easy"
	MediumDifficulty Difficulty = "medium"
	HardDifficulty   Difficulty = "hard"
)

func ParseDifficulty(value string) (Difficulty, error) {
	switch difficulty := Difficulty(strings.ToLower(strings.TrimSpace(value))); difficulty {
	case EasyDifficulty, MediumDifficulty, HardDifficulty:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, value)
	}
}

// OptimalProbability is the chance the opponent plays the searched move instead of a random one.
func (that Difficulty) OptimalProbability() float64 {
	switch that {
	case EasyDifficulty:
		return 0.2
	case MediumDifficulty:
		return 0.6
	case HardDifficulty:
		return 1.0
	default:
		return 0
	}
}
