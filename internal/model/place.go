package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Place struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	ParentID      string `gorm:"size:36;index" json:"parent_id"`
	Kind          string `gorm:"size:32;index" json:"kind"`
	Name          string `gorm:"size:128;not null;index" json:"name"`
	Slug          string `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	Description   string `gorm:"type:text" json:"description"`
	LoreMD        string `gorm:"column:lore_md;type:text" json:"lore_md"`
	CoverImageURL string `gorm:"size:512" json:"cover_image_url"`
	// Map coordinates are percentages (0-100); nil means the place has no
	// marker on the interactive map.
	MapX      *float64  `gorm:"column:map_x" json:"map_x"`
	MapY      *float64  `gorm:"column:map_y" json:"map_y"`
	Status    string    `gorm:"size:16;default:unlocked" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Place) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
