package model

import "time"

// ChatLog records one completed chat exchange for operations. Only the text
// pair is kept; attachments never leave the request lifecycle.
type ChatLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Reply     string    `gorm:"type:text;not null" json:"reply"`
	Degraded  bool      `gorm:"not null" json:"degraded"`
	CreatedAt time.Time `json:"created_at"`
}
