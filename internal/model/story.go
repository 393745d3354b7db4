package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Story struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Title         string    `gorm:"size:256;not null" json:"title"`
	Slug          string    `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	Excerpt       string    `gorm:"type:text" json:"excerpt"`
	ContentMD     string    `gorm:"column:content_md;type:text" json:"content_md"`
	CoverImageURL string    `gorm:"size:512" json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StoryCharacter links a story to a character it features. A story may
// reference zero or more characters and places; matching is many-to-many.
type StoryCharacter struct {
	StoryID     string `gorm:"primaryKey;size:36" json:"story_id"`
	CharacterID string `gorm:"primaryKey;size:36;index" json:"character_id"`
}

func (StoryCharacter) TableName() string { return "story_characters" }

type StoryPlace struct {
	StoryID string `gorm:"primaryKey;size:36" json:"story_id"`
	PlaceID string `gorm:"primaryKey;size:36;index" json:"place_id"`
}

func (StoryPlace) TableName() string { return "story_places" }
