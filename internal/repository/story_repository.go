package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/model"
)

type StoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) List(ctx context.Context) ([]model.Story, error) {
	var stories []model.Story
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories failed: %w", err)
	}
	return stories, nil
}

func (r *StoryRepository) GetByID(ctx context.Context, id string) (*model.Story, error) {
	var story model.Story
	if err := r.db.WithContext(ctx).First(&story, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query story by id failed: %w", err)
	}
	return &story, nil
}

func (r *StoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Story, error) {
	var story model.Story
	if err := r.db.WithContext(ctx).First(&story, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query story by slug failed: %w", err)
	}
	return &story, nil
}

func (r *StoryRepository) ListStoryIDsByCharacters(ctx context.Context, characterIDs []string) ([]string, error) {
	if len(characterIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.StoryCharacter{}).
		Where("character_id IN ?", characterIDs).
		Pluck("story_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list story ids by characters failed: %w", err)
	}
	return ids, nil
}

func (r *StoryRepository) ListStoryIDsByPlaces(ctx context.Context, placeIDs []string) ([]string, error) {
	if len(placeIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.StoryPlace{}).
		Where("place_id IN ?", placeIDs).
		Pluck("story_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list story ids by places failed: %w", err)
	}
	return ids, nil
}

// ListRecentByIDs fetches the given stories, newest first, capped at limit.
func (r *StoryRepository) ListRecentByIDs(ctx context.Context, ids []string, limit int) ([]model.Story, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 6
	}
	var stories []model.Story
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Limit(limit).
		Find(&stories).Error; err != nil {
		return nil, fmt.Errorf("list stories by ids failed: %w", err)
	}
	return stories, nil
}

func (r *StoryRepository) Create(ctx context.Context, story *model.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return fmt.Errorf("create story failed: %w", err)
	}
	return nil
}

func (r *StoryRepository) Update(ctx context.Context, story *model.Story) error {
	if err := r.db.WithContext(ctx).Save(story).Error; err != nil {
		return fmt.Errorf("update story failed: %w", err)
	}
	return nil
}

func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.StoryCharacter{}, "story_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete story character links failed: %w", err)
		}
		if err := tx.Delete(&model.StoryPlace{}, "story_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete story place links failed: %w", err)
		}
		if err := tx.Delete(&model.Story{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete story failed: %w", err)
		}
		return nil
	})
}

// ReplaceLinks rewrites the story's character and place join rows.
func (r *StoryRepository) ReplaceLinks(ctx context.Context, storyID string, characterIDs, placeIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.StoryCharacter{}, "story_id = ?", storyID).Error; err != nil {
			return fmt.Errorf("clear story character links failed: %w", err)
		}
		if err := tx.Delete(&model.StoryPlace{}, "story_id = ?", storyID).Error; err != nil {
			return fmt.Errorf("clear story place links failed: %w", err)
		}
		for _, characterID := range characterIDs {
			link := model.StoryCharacter{StoryID: storyID, CharacterID: characterID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("create story character link failed: %w", err)
			}
		}
		for _, placeID := range placeIDs {
			link := model.StoryPlace{StoryID: storyID, PlaceID: placeID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("create story place link failed: %w", err)
			}
		}
		return nil
	})
}
