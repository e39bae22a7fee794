package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
)

type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"
)

const BoardSize = 9

type Board [BoardSize]Mark

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ParseBoard converts a wire board into a Board. It rejects boards of the wrong length and unknown marks.
func ParseBoard(cells []string) (Board, error) {
	var board Board

	if len(cells) != BoardSize {
		return board, fmt.Errorf("%w: expected %d cells, got %d", apperror.ErrInvalidBoard, BoardSize, len(cells))
	}

	for i, cell := range cells {
		mark, err := ParseMark(cell)
		if err != nil {
			return board, fmt.Errorf("%w: cell %d: %w", apperror.ErrInvalidBoard, i, err)
		}

		board[i] = mark
	}

	return board, nil
}

func ParseMark(value string) (Mark, error) {
	switch Mark(strings.ToUpper(strings.TrimSpace(value))) {
	case EmptyCell:
		return EmptyCell, nil
	case PlayerX:
		return PlayerX, nil
	case PlayerO:
		return PlayerO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrUnknownMark, value)
	}
}

func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Winner returns the mark holding a complete line, or EmptyCell.
func (that *Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

func (that *Board) AvailableMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Result returns the winning mark, PlayerTie when the board is full, or EmptyCell while the game continues.
func (that *Board) Result() Mark {
	if winner := that.Winner(); winner != EmptyCell {
		return winner
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return EmptyCell
	}

	return PlayerTie
}

func (that *Board) Strings() []string {
	cells := make([]string, BoardSize)
	for i, cell := range that {
		cells[i] = string(cell)
	}

	return cells
}
