package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/model"
)

type PlaceRepository struct {
	db *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) List(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).
		Order("kind ASC").
		Order("name ASC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list places failed: %w", err)
	}
	return places, nil
}

// ListForMap returns only places with map coordinates, in creation order.
func (r *PlaceRepository) ListForMap(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).
		Where("map_x IS NOT NULL").
		Where("map_y IS NOT NULL").
		Order("created_at ASC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list map places failed: %w", err)
	}
	return places, nil
}

func (r *PlaceRepository) ListChildren(ctx context.Context, parentID string) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("kind ASC").
		Order("name ASC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list child places failed: %w", err)
	}
	return places, nil
}

func (r *PlaceRepository) ListCandidates(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Order("created_at ASC").
		Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list place candidates failed: %w", err)
	}
	return places, nil
}

func (r *PlaceRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Place, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var places []model.Place
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&places).Error; err != nil {
		return nil, fmt.Errorf("list places by ids failed: %w", err)
	}
	return places, nil
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	var place model.Place
	if err := r.db.WithContext(ctx).First(&place, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query place by id failed: %w", err)
	}
	return &place, nil
}

func (r *PlaceRepository) GetBySlug(ctx context.Context, slug string) (*model.Place, error) {
	var place model.Place
	if err := r.db.WithContext(ctx).First(&place, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query place by slug failed: %w", err)
	}
	return &place, nil
}

func (r *PlaceRepository) Create(ctx context.Context, place *model.Place) error {
	if err := r.db.WithContext(ctx).Create(place).Error; err != nil {
		return fmt.Errorf("create place failed: %w", err)
	}
	return nil
}

func (r *PlaceRepository) Update(ctx context.Context, place *model.Place) error {
	if err := r.db.WithContext(ctx).Save(place).Error; err != nil {
		return fmt.Errorf("update place failed: %w", err)
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.Place{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete place failed: %w", err)
	}
	return nil
}
