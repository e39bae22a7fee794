package rest

import (
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/fairchain-backend/internal/tictactoe"
	"github.com/rocketscienceinc/fairchain-backend/internal/usecase"
)

const msgAIMoveFailed = "Failed to compute move"

type AIHandler interface {
	Move(w http.ResponseWriter, req *http.Request)
}

type aiHandler struct {
	logger *slog.Logger
	rnd    tictactoe.Random
}

func NewAIHandler(logger *slog.Logger, rnd tictactoe.Random) AIHandler {
	return &aiHandler{
		logger: logger.With("handler", "ai"),
		rnd:    rnd,
	}
}

// moveRequest carries a board as 9 cells; null and "" both mean empty.
type moveRequest struct {
	Board      []string `json:"board"`
	Difficulty string   `json:"difficulty"`
	Mark       string   `json:"mark"`
}

type moveResponse struct {
	Move int `json:"move"`
}

func (that *aiHandler) Move(w http.ResponseWriter, req *http.Request) {
	var body moveRequest
	if err := decode(w, req, &body); err != nil {
		fail(w, err, msgAIMoveFailed)
		return
	}

	move, err := usecase.AIMove(body.Board, body.Difficulty, body.Mark, that.rnd)
	if err != nil {
		that.logger.Debug("failed to compute move", "error", err)
		fail(w, err, msgAIMoveFailed)
		return
	}

	success(w, moveResponse{Move: move})
}
