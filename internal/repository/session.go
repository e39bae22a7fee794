package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/fairchain-backend/internal/entity"
)

const sessionPrefix = "session"

// SessionRepository holds escrow sessions, secret keys included.
type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

func sessionID(session *entity.Session) string {
	return session.ID
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisStore[entity.Session]{
		client: client,
		prefix: sessionPrefix,
		ttl:    ttl,
		idOf:   sessionID,
	}
}

// NewMemorySessionRepository keeps up to capacity sessions in process. onEvict, when not nil,
// receives every session that leaves the store.
func NewMemorySessionRepository(capacity int, ttl time.Duration, onEvict func(*entity.Session)) SessionRepository {
	return newMemoryStore(sessionPrefix, capacity, ttl, sessionID, onEvict)
}
