package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/usecase"
)

// clientErrors are reported to the player verbatim.
var clientErrors = []error{
	apperror.ErrGameNotFound,
	apperror.ErrGameFinished,
	apperror.ErrGameIsNotStarted,
	apperror.ErrNotYourTurn,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrUnknownDifficulty,
	usecase.ErrNotYourGame,
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.Difficulty == "" {
		payload.Difficulty = string(entity.MediumDifficulty)
	}

	difficulty, err := entity.ParseDifficulty(payload.Difficulty)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, clientMessage(err, "invalid difficulty"))
		return nil
	}

	game, err := that.games.NewGame(ctx, conn.playerID, difficulty)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
		return fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", game.ID)

	return that.sendGame(conn, msg.Action, game)
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "playerID", conn.playerID)

	payload, err := decodePayload(msg)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.GameID == "" || payload.Cell == nil {
		that.sendErrorResponse(conn, msg.Action, "gameId and cell are required")
		return nil
	}

	game, err := that.games.MakeTurn(ctx, payload.GameID, conn.playerID, *payload.Cell)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, clientMessage(err, "failed to make turn"))

		if isClientError(err) {
			return nil
		}

		return fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
	}

	return that.sendGame(conn, msg.Action, game)
}

func (that *Server) handleGetGame(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, "invalid payload")
		return err
	}

	if payload.GameID == "" {
		that.sendErrorResponse(conn, msg.Action, "gameId is required")
		return nil
	}

	game, err := that.games.GetGame(ctx, payload.GameID)
	if err != nil {
		that.sendErrorResponse(conn, msg.Action, clientMessage(err, "failed to get the game"))

		if isClientError(err) {
			return nil
		}

		return fmt.Errorf("failed to get game: %w", err)
	}

	human := game.Human()
	if human == nil || human.ID != conn.playerID {
		that.sendErrorResponse(conn, msg.Action, usecase.ErrNotYourGame.Error())
		return nil
	}

	return that.sendGame(conn, msg.Action, game)
}

func (that *Server) sendGame(conn *connection, action string, game *entity.Game) error {
	return that.sendMessage(conn, action, ResponsePayload{
		Player: game.Human(),
		Game:   maskGameDetails(game),
	})
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// clientMessage returns the text of the known error wrapped in err, or fallback.
func clientMessage(err error, fallback string) string {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return fallback
}
