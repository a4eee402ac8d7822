package contract

import (
	"context"
	"errors"

	"mallfinder-be/internal/entity"
)

// ErrQueryNotFound signals a saved-query reference that no longer resolves.
// The dialog service downgrades it to a recoverable user message.
var ErrQueryNotFound = errors.New("saved query not found")

// SavedQueryRepository persists each user's ordered saved-query list.
// Every mutation is a read-modify-write of the user's single record; callers
// serialize concurrent mutations for the same user.
type SavedQueryRepository interface {
	List(ctx context.Context, userID string) ([]entity.SavedQuery, error)
	Get(ctx context.Context, userID string, id int) (*entity.SavedQuery, error)
	// Create assigns id = max(existing ids, 0) + 1 and returns it.
	Create(ctx context.Context, userID, name string, stores []string, city string) (int, error)
	Rename(ctx context.Context, userID string, id int, newName string) error
	ReplaceStores(ctx context.Context, userID string, id int, stores []string) error
	Delete(ctx context.Context, userID string, id int) error
}
