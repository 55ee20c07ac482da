package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/model"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)

type FriendshipStore struct {
	db *sql.DB
}

func NewFriendshipStore(db *sql.DB) *FriendshipStore {
	return &FriendshipStore{db: db}
}

func (s *FriendshipStore) Follow(followerID, followingID int64) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	result, err := s.db.Exec(
		`INSERT INTO friendships (follower_id, following_id, status) VALUES (?, ?, ?)
		 ON CONFLICT(follower_id, following_id) DO NOTHING`,
		followerID, followingID, model.FriendshipActive,
	)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAlreadyFollowing
	}
	return nil
}

func (s *FriendshipStore) Unfollow(followerID, followingID int64) error {
	result, err := s.db.Exec(
		`DELETE FROM friendships WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (s *FriendshipStore) IsFollowing(followerID, followingID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM friendships
		 WHERE follower_id = ? AND following_id = ? AND status = ?`,
		followerID, followingID, model.FriendshipActive,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check following: %w", err)
	}
	return n > 0, nil
}

// List returns who the user follows, flagging mutual follows.
func (s *FriendshipStore) List(userID int64) ([]model.Friend, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.nickname, u.avatar_emoji, u.bio, u.is_public, u.created_at, u.updated_at,
		   f.created_at,
		   EXISTS (
		     SELECT 1 FROM friendships b
		     WHERE b.follower_id = f.following_id AND b.following_id = f.follower_id
		       AND b.status = ?
		   )
		 FROM friendships f
		 JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id = ? AND f.status = ?
		 ORDER BY f.created_at DESC`,
		model.FriendshipActive, userID, model.FriendshipActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var friends []model.Friend
	for rows.Next() {
		var fr model.Friend
		err := rows.Scan(&fr.User.ID, &fr.User.Nickname, &fr.User.AvatarEmoji, &fr.User.Bio,
			&fr.User.IsPublic, &fr.User.CreatedAt, &fr.User.UpdatedAt, &fr.FollowedAt, &fr.Mutual)
		if err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, fr)
	}
	return friends, rows.Err()
}

// FollowerIDs returns everyone following the user, for fan-out events.
func (s *FriendshipStore) FollowerIDs(userID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT follower_id FROM friendships WHERE following_id = ? AND status = ?`,
		userID, model.FriendshipActive,
	)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan follower id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
