package mapper

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"mallfinder-be/internal/entity"
	"mallfinder-be/internal/model"
)

type SavedQueryMapper struct{}

func NewSavedQueryMapper() *SavedQueryMapper {
	return &SavedQueryMapper{}
}

func (m *SavedQueryMapper) ToEntities(row *model.SavedQuerySet) ([]entity.SavedQuery, error) {
	if row == nil || len(row.Queries) == 0 {
		return []entity.SavedQuery{}, nil
	}
	var queries []entity.SavedQuery
	if err := json.Unmarshal(row.Queries, &queries); err != nil {
		return nil, err
	}
	return queries, nil
}

func (m *SavedQueryMapper) ToModel(userId uuid.UUID, queries []entity.SavedQuery) (*model.SavedQuerySet, error) {
	if queries == nil {
		queries = []entity.SavedQuery{}
	}
	raw, err := json.Marshal(queries)
	if err != nil {
		return nil, err
	}
	return &model.SavedQuerySet{
		UserId:  userId,
		Queries: datatypes.JSON(raw),
	}, nil
}
