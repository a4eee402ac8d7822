package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/mapper"
	"mallfinder-be/internal/model"
	"mallfinder-be/internal/repository/contract"
)

type SavedQueryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SavedQueryMapper
}

func NewSavedQueryRepository(db *gorm.DB) contract.SavedQueryRepository {
	return &SavedQueryRepositoryImpl{
		db:     db,
		mapper: mapper.NewSavedQueryMapper(),
	}
}

func (r *SavedQueryRepositoryImpl) load(ctx context.Context, userId uuid.UUID) ([]entity.SavedQuery, error) {
	var row model.SavedQuerySet
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []entity.SavedQuery{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(&row)
}

func (r *SavedQueryRepositoryImpl) store(ctx context.Context, userId uuid.UUID, queries []entity.SavedQuery) error {
	row, err := r.mapper.ToModel(userId, queries)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"queries", "updated_at"}),
		}).
		Create(row).Error
}

func parseUserId(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(userID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid opaque user id %q: %w", userID, err)
	}
	return id, nil
}

func (r *SavedQueryRepositoryImpl) List(ctx context.Context, userID string) ([]entity.SavedQuery, error) {
	uid, err := parseUserId(userID)
	if err != nil {
		return nil, err
	}
	return r.load(ctx, uid)
}

func (r *SavedQueryRepositoryImpl) Get(ctx context.Context, userID string, id int) (*entity.SavedQuery, error) {
	queries, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range queries {
		if queries[i].Id == id {
			return &queries[i], nil
		}
	}
	return nil, contract.ErrQueryNotFound
}

func (r *SavedQueryRepositoryImpl) Create(ctx context.Context, userID, name string, stores []string, city string) (int, error) {
	uid, err := parseUserId(userID)
	if err != nil {
		return 0, err
	}
	queries, err := r.load(ctx, uid)
	if err != nil {
		return 0, err
	}

	maxId := 0
	for _, q := range queries {
		if q.Id > maxId {
			maxId = q.Id
		}
	}
	newId := maxId + 1

	queries = append(queries, entity.SavedQuery{
		Id:     newId,
		Name:   name,
		Stores: append([]string(nil), stores...),
		City:   city,
	})
	if err := r.store(ctx, uid, queries); err != nil {
		return 0, err
	}
	return newId, nil
}

func (r *SavedQueryRepositoryImpl) Rename(ctx context.Context, userID string, id int, newName string) error {
	return r.update(ctx, userID, id, func(q *entity.SavedQuery) {
		q.Name = newName
	})
}

func (r *SavedQueryRepositoryImpl) ReplaceStores(ctx context.Context, userID string, id int, stores []string) error {
	return r.update(ctx, userID, id, func(q *entity.SavedQuery) {
		q.Stores = append([]string(nil), stores...)
	})
}

func (r *SavedQueryRepositoryImpl) update(ctx context.Context, userID string, id int, mutate func(*entity.SavedQuery)) error {
	uid, err := parseUserId(userID)
	if err != nil {
		return err
	}
	queries, err := r.load(ctx, uid)
	if err != nil {
		return err
	}
	for i := range queries {
		if queries[i].Id == id {
			mutate(&queries[i])
			return r.store(ctx, uid, queries)
		}
	}
	return contract.ErrQueryNotFound
}

func (r *SavedQueryRepositoryImpl) Delete(ctx context.Context, userID string, id int) error {
	uid, err := parseUserId(userID)
	if err != nil {
		return err
	}
	queries, err := r.load(ctx, uid)
	if err != nil {
		return err
	}
	for i := range queries {
		if queries[i].Id == id {
			queries = append(queries[:i], queries[i+1:]...)
			return r.store(ctx, uid, queries)
		}
	}
	return contract.ErrQueryNotFound
}
