package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/tictactoe"
)

// AIMove answers a stateless move request for a board kept by the client.
// The opponent plays O unless mark says otherwise.
func AIMove(cells []string, difficulty, mark string, rnd tictactoe.Random) (int, error) {
	board, err := entity.ParseBoard(cells)
	if err != nil {
		return tictactoe.NoMove, err
	}

	level, err := entity.ParseDifficulty(difficulty)
	if err != nil {
		return tictactoe.NoMove, err
	}

	aiMark := entity.PlayerO
	if mark != "" {
		if aiMark, err = entity.ParseMark(mark); err != nil {
			return tictactoe.NoMove, err
		}
	}

	move, err := tictactoe.BestMove(board, aiMark, level, rnd)
	if err != nil {
		return tictactoe.NoMove, fmt.Errorf("failed to search move: %w", err)
	}

	return move, nil
}
