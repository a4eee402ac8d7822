package memory

import (
	"context"
	"sync"

	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/repository/contract"
)

// SavedQueryRepository keeps saved queries in process memory. Used when no
// database is configured and by the dialog service tests; semantics mirror
// the Postgres implementation, including stable ids.
type SavedQueryRepository struct {
	mu   sync.Mutex
	sets map[string][]entity.SavedQuery
}

func NewSavedQueryRepository() contract.SavedQueryRepository {
	return &SavedQueryRepository{sets: make(map[string][]entity.SavedQuery)}
}

func cloneQueries(queries []entity.SavedQuery) []entity.SavedQuery {
	out := make([]entity.SavedQuery, len(queries))
	for i, q := range queries {
		q.Stores = append([]string(nil), q.Stores...)
		out[i] = q
	}
	return out
}

func (r *SavedQueryRepository) List(_ context.Context, userID string) ([]entity.SavedQuery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneQueries(r.sets[userID]), nil
}

func (r *SavedQueryRepository) Get(_ context.Context, userID string, id int) (*entity.SavedQuery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.sets[userID] {
		if q.Id == id {
			q.Stores = append([]string(nil), q.Stores...)
			return &q, nil
		}
	}
	return nil, contract.ErrQueryNotFound
}

func (r *SavedQueryRepository) Create(_ context.Context, userID, name string, stores []string, city string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxId := 0
	for _, q := range r.sets[userID] {
		if q.Id > maxId {
			maxId = q.Id
		}
	}
	newId := maxId + 1
	r.sets[userID] = append(r.sets[userID], entity.SavedQuery{
		Id:     newId,
		Name:   name,
		Stores: append([]string(nil), stores...),
		City:   city,
	})
	return newId, nil
}

func (r *SavedQueryRepository) Rename(_ context.Context, userID string, id int, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sets[userID] {
		if r.sets[userID][i].Id == id {
			r.sets[userID][i].Name = newName
			return nil
		}
	}
	return contract.ErrQueryNotFound
}

func (r *SavedQueryRepository) ReplaceStores(_ context.Context, userID string, id int, stores []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sets[userID] {
		if r.sets[userID][i].Id == id {
			r.sets[userID][i].Stores = append([]string(nil), stores...)
			return nil
		}
	}
	return contract.ErrQueryNotFound
}

func (r *SavedQueryRepository) Delete(_ context.Context, userID string, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	queries := r.sets[userID]
	for i := range queries {
		if queries[i].Id == id {
			r.sets[userID] = append(queries[:i], queries[i+1:]...)
			return nil
		}
	}
	return contract.ErrQueryNotFound
}
