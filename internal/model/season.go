package model

import "time"

type Season struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TotalDays int       `json:"total_days"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSeason tracks one user's progress through a season. CurrentDay counts
// answered days; completion fires when it reaches the season's TotalDays.
type UserSeason struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	SeasonID    int64      `json:"season_id"`
	CurrentDay  int        `json:"current_day"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
}
