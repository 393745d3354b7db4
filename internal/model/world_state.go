package model

import "time"

// WorldState is a singleton row (id = "global") summarizing the current
// state of the world narrative.
type WorldState struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Summary   string         `gorm:"type:text" json:"summary"`
	Memory    map[string]any `gorm:"serializer:json" json:"memory"`
	Source    string         `gorm:"size:64" json:"source"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (WorldState) TableName() string { return "world_state" }
