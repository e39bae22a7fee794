package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
)

const gamePrefix = "game"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

func gameID(game *entity.Game) string {
	return game.ID
}

func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &redisStore[entity.Game]{
		client: client,
		prefix: gamePrefix,
		ttl:    ttl,
		idOf:   gameID,
	}
}

func NewMemoryGameRepository(capacity int, ttl time.Duration) GameRepository {
	return newMemoryStore(gamePrefix, capacity, ttl, gameID, nil)
}
