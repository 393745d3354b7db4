package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Character struct {
	ID                string   `gorm:"primaryKey;size:36" json:"id"`
	Name              string   `gorm:"size:128;not null;index" json:"name"`
	Aliases           []string `gorm:"serializer:json" json:"aliases"`
	Title             string   `gorm:"size:128" json:"title"`
	Faction           string   `gorm:"size:128" json:"faction"`
	Description       string   `gorm:"type:text" json:"description"`
	Lore              string   `gorm:"type:text" json:"lore"`
	Bio               string   `gorm:"type:text" json:"bio"`
	RPPrompt          string   `gorm:"type:text" json:"rp_prompt"`
	ImageURL          string   `gorm:"size:512" json:"image_url"`
	CurrentLocationID string   `gorm:"size:36;index" json:"current_location_id"`
	HomeLocationID    string   `gorm:"size:36" json:"home_location_id"`
	// hidden | rumor | revealed
	DiscoveryStage string    `gorm:"size:16;default:revealed" json:"discovery_stage"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Character) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
