package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")

	ErrInvalidBoard      = errors.New("invalid board")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownMark       = errors.New("unknown mark")

	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidBetAmount = errors.New("invalid bet amount")
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSession   = errors.New("session is not in the expected state")

	ErrInvalidTransaction = errors.New("invalid transaction envelope")
)

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidBetAmount) ||
		errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidPublicKey) ||
		errors.Is(err, ErrInvalidBoard) ||
		errors.Is(err, ErrUnknownDifficulty) ||
		errors.Is(err, ErrUnknownMark) ||
		errors.Is(err, ErrInvalidCell) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrInvalidTransaction)
}
