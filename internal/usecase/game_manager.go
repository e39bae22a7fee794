package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/fairchain-backend/internal/apperror"
	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
	"github.com/rocketscienceinc/fairchain-backend/internal/pkg"
	"github.com/rocketscienceinc/fairchain-backend/internal/repository"
)

var ErrNotYourGame = errors.New("player is not part of this game")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
}

// GameManager runs tic-tac-toe games between a connected player and the bot.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	bot      botService
	locks    *keyedMutex

	generateID func() (string, error)
	marks      func() (entity.Mark, entity.Mark)
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, bot botService) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		bot:      bot,
		locks:    newKeyedMutex(),

		generateID: pkg.GenerateGameID,
		marks:      entity.GetRandomMarks,
	}
}

// NewGame starts a game against the bot. Marks are drawn at random and the bot opens when it holds X.
func (that *GameManager) NewGame(ctx context.Context, playerID string, difficulty entity.Difficulty) (*entity.Game, error) {
	gameID, err := that.generateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	playerMark, botMark := that.marks()

	game := entity.NewGame(gameID, difficulty)
	game.Players = []*entity.Player{
		{ID: playerID, Mark: playerMark, GameID: gameID},
		entity.NewBotPlayer(gameID, botMark),
	}
	game.Status = entity.StatusOngoing

	if botMark == entity.PlayerX {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game started", "gameID", gameID, "difficulty", difficulty, "botMark", botMark)

	return game, nil
}

// MakeTurn applies the player's move and the bot's reply. Turns on one game run one at a time.
// Finished games are removed from the store.
func (that *GameManager) MakeTurn(ctx context.Context, gameID, playerID string, cell int) (*entity.Game, error) {
	unlock := that.locks.Lock(gameID)
	defer unlock()

	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	human := game.Human()
	if human == nil || human.ID != playerID {
		return nil, ErrNotYourGame
	}

	if err = game.MakeTurn(human.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if !game.IsFinished() {
		if err = that.bot.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if game.IsFinished() {
		that.deleteGame(ctx, game)

		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, gameID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Info("game finished", "winner", game.Winner)
}
