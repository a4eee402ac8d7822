package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/repository/contract"
)

const keyPrefix = "session:"

// Sessions are refreshed on every save; an idle month means the user gets a
// clean /start experience instead of a stale cursor.
const sessionTTL = 30 * 24 * time.Hour

type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) contract.SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*entity.Session, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt record is unrecoverable; treat it as absent.
		return entity.NewSession(userID), nil
	}
	session.UserID = userID
	return &session, nil
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+session.UserID, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}
