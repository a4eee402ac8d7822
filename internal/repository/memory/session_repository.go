package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/repository/contract"
)

// SessionRepository is the in-process fallback used when Redis is not
// configured (local development, tests). Same contract, no durability.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() contract.SessionRepository {
	// Default expiration of 1 hour, purging expired entries every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{cache: c}
}

func (r *SessionRepository) Get(_ context.Context, userID string) (*entity.Session, error) {
	if x, found := r.cache.Get(userID); found {
		stored := x.(*entity.Session)
		clone := *stored
		clone.Stores = append([]string(nil), stored.Stores...)
		clone.StoreChoices = append([]string(nil), stored.StoreChoices...)
		return &clone, nil
	}
	return entity.NewSession(userID), nil
}

func (r *SessionRepository) Save(_ context.Context, session *entity.Session) error {
	clone := *session
	clone.Stores = append([]string(nil), session.Stores...)
	clone.StoreChoices = append([]string(nil), session.StoreChoices...)
	r.cache.Set(session.UserID, &clone, cache.DefaultExpiration)
	return nil
}
