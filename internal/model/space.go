package model

import (
	"time"

	"github.com/hyejinmo/pixelo/internal/space"
)

// Space is one user's grid for a season. Layout order is visual stacking
// input, not semantic.
type Space struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	SeasonID     int64             `json:"season_id"`
	IsPublic     bool              `json:"is_public"`
	Layout       []space.Placement `json:"layout"`
	LastEditedAt time.Time         `json:"last_edited_at"`
	CreatedAt    time.Time         `json:"created_at"`
}
