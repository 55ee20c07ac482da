package model

import "time"

const (
	FriendshipActive  = "active"
	FriendshipBlocked = "blocked"
)

// Friendship is a one-way follow edge.
type Friendship struct {
	ID          int64     `json:"id"`
	FollowerID  int64     `json:"follower_id"`
	FollowingID int64     `json:"following_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Friend is the list view of someone the user follows.
type Friend struct {
	User       User      `json:"user"`
	FollowedAt time.Time `json:"followed_at"`
	Mutual     bool      `json:"mutual"`
}
