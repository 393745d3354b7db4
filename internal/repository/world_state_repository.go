package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/model"
)

type WorldStateRepository struct {
	db *gorm.DB
}

func NewWorldStateRepository(db *gorm.DB) *WorldStateRepository {
	return &WorldStateRepository{db: db}
}

func (r *WorldStateRepository) Get(ctx context.Context) (*model.WorldState, error) {
	var state model.WorldState
	if err := r.db.WithContext(ctx).First(&state, "id = ?", "global").Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query world state failed: %w", err)
	}
	return &state, nil
}
