package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dogami567/noval-for-one/internal/model"
)

type TimelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) List(ctx context.Context) ([]model.TimelineEvent, error) {
	var events []model.TimelineEvent
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list timeline events failed: %w", err)
	}
	return events, nil
}

func (r *TimelineRepository) GetByID(ctx context.Context, id string) (*model.TimelineEvent, error) {
	var event model.TimelineEvent
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query timeline event by id failed: %w", err)
	}
	return &event, nil
}

func (r *TimelineRepository) Create(ctx context.Context, event *model.TimelineEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create timeline event failed: %w", err)
	}
	return nil
}

func (r *TimelineRepository) Update(ctx context.Context, event *model.TimelineEvent) error {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("update timeline event failed: %w", err)
	}
	return nil
}

func (r *TimelineRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&model.TimelineEvent{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete timeline event failed: %w", err)
	}
	return nil
}
