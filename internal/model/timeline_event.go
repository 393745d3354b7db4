package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimelineEvent struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Title     string `gorm:"size:256;not null" json:"title"`
	DateLabel string `gorm:"size:64" json:"date_label"`
	Summary   string `gorm:"type:text" json:"summary"`
	// completed | active | pending
	Status    string    `gorm:"size:16;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *TimelineEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
