package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/model"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func (r *CharacterRepository) List(ctx context.Context) ([]model.Character, error) {
	var characters []model.Character
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("list characters failed: %w", err)
	}
	return characters, nil
}

func (r *CharacterRepository) ListByLocation(ctx context.Context, locationID string) ([]model.Character, error) {
	var characters []model.Character
	if err := r.db.WithContext(ctx).
		Where("current_location_id = ?", locationID).
		Order("created_at ASC").
		Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("list characters by location failed: %w", err)
	}
	return characters, nil
}

// ListCandidates fetches the lightweight name/alias projection used by the
// chat entity matcher. Rows carry only id, name and aliases.
func (r *CharacterRepository) ListCandidates(ctx context.Context) ([]model.Character, error) {
	var characters []model.Character
	if err := r.db.WithContext(ctx).
		Select("id", "name", "aliases").
		Order("created_at ASC").
		Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("list character candidates failed: %w", err)
	}
	return characters, nil
}

func (r *CharacterRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Character, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var characters []model.Character
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&characters).Error; err != nil {
		return nil, fmt.Errorf("list characters by ids failed: %w", err)
	}
	return characters, nil
}

func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*model.Character, error) {
	var character model.Character
	if err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query character by id failed: %w", err)
	}
	return &character, nil
}

func (r *CharacterRepository) Create(ctx context.Context, character *model.Character) error {
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		return fmt.Errorf("create character failed: %w", err)
	}
	return nil
}

func (r *CharacterRepository) Update(ctx context.Context, character *model.Character) error {
	if err := r.db.WithContext(ctx).Save(character).Error; err != nil {
		return fmt.Errorf("update character failed: %w", err)
	}
	return nil
}

func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Character{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete character failed: %w", err)
	}
	return nil
}
