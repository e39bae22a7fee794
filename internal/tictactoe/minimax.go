package tictactoe

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
)

// NoMove is returned when the board has no empty cell or the game is already decided.
const NoMove = -1

const (
	winScore = 10
	maxDepth = entity.BoardSize
)

// Random is the source of randomness used to blend optimal and random play.
// *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() } //nolint: gosec // it's ok
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }   //nolint: gosec // it's ok

// DefaultRandom is safe for concurrent use.
var DefaultRandom Random = globalRandom{}

// BestMove returns the cell the opponent holding aiMark plays next.
// With probability difficulty.OptimalProbability() it is the minimax move,
// otherwise a uniformly chosen empty cell.
func BestMove(board entity.Board, aiMark entity.Mark, difficulty entity.Difficulty, rnd Random) (int, error) {
	if aiMark != entity.PlayerX && aiMark != entity.PlayerO {
		return NoMove, fmt.Errorf("%w: %q", apperror.ErrUnknownMark, aiMark)
	}

	if rnd == nil {
		rnd = DefaultRandom
	}

	moves := board.AvailableMoves()
	if len(moves) == 0 || board.Winner() != entity.EmptyCell {
		return NoMove, nil
	}

	if rnd.Float64() < difficulty.OptimalProbability() {
		return OptimalMove(board, aiMark), nil
	}

	return moves[rnd.IntN(len(moves))], nil
}

// OptimalMove runs the full search for aiMark. Among equally scored moves the lowest index wins.
func OptimalMove(board entity.Board, aiMark entity.Mark) int {
	_, move := minimax(&board, 0, true, math.MinInt, math.MaxInt, aiMark, aiMark.Opponent())
	return move
}

func minimax(board *entity.Board, depth int, maximizing bool, alpha, beta int, ai, human entity.Mark) (int, int) {
	switch board.Result() {
	case ai:
		return winScore - depth, NoMove
	case human:
		return depth - winScore, NoMove
	case entity.PlayerTie:
		return 0, NoMove
	}

	if depth >= maxDepth {
		return 0, NoMove
	}

	bestMove := NoMove

	if maximizing {
		bestScore := math.MinInt
		for _, move := range board.AvailableMoves() {
			board[move] = ai
			score, _ := minimax(board, depth+1, false, alpha, beta, ai, human)
			board[move] = entity.EmptyCell

			if score > bestScore {
				bestScore, bestMove = score, move
			}

			alpha = max(alpha, bestScore)
			if beta <= alpha {
				break
			}
		}

		return bestScore, bestMove
	}

	bestScore := math.MaxInt
	for _, move := range board.AvailableMoves() {
		board[move] = human
		score, _ := minimax(board, depth+1, true, alpha, beta, ai, human)
		board[move] = entity.EmptyCell

		if score < bestScore {
			bestScore, bestMove = score, move
		}

		beta = min(beta, bestScore)
		if beta <= alpha {
			break
		}
	}

	return bestScore, bestMove
}
