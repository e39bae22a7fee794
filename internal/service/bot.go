package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type botService struct {
	rnd tictactoe.Random
}

func NewBotService(rnd tictactoe.Random) BotService {
	if rnd == nil {
		rnd = tictactoe.DefaultRandom
	}

	return &botService{rnd: rnd}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	botPlayer := game.Bot()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	chosenCell, err := tictactoe.BestMove(game.Board, botPlayer.Mark, game.Difficulty, that.rnd)
	if err != nil {
		return fmt.Errorf("failed to search move: %w", err)
	}

	if chosenCell == tictactoe.NoMove {
		return ErrNoAvailableMoves
	}

	if err = game.MakeTurn(botPlayer.Mark, chosenCell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
