package model

import "time"

type User struct {
	ID          int64     `json:"id"`
	Nickname    string    `json:"nickname"`
	AvatarEmoji string    `json:"avatar_emoji"`
	Bio         string    `json:"bio"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
