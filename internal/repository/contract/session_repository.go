package contract

import (
	"context"

	"mallfinder-be/internal/entity"
)

// SessionRepository stores one conversation state record per opaque user id.
type SessionRepository interface {
	// Get returns the user's session, or a fresh initial session when none
	// exists yet. A missing record is not an error.
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
}
