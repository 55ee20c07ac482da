package store

import (
	"database/sql"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var isPublic int

	err := scanner.Scan(&u.ID, &u.Nickname, &u.AvatarEmoji, &u.Bio, &isPublic, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.IsPublic = isPublic != 0
	return &u, nil
}

const userCols = `id, nickname, avatar_emoji, bio, is_public, created_at, updated_at`

func (s *UserStore) Create(nickname, passwordHash, avatarEmoji string) (*model.User, error) {
	if avatarEmoji == "" {
		avatarEmoji = "🙂"
	}
	result, err := s.db.Exec(
		`INSERT INTO users (nickname, password_hash, avatar_emoji) VALUES (?, ?, ?)`,
		nickname, passwordHash, avatarEmoji,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByNickname(nickname string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE nickname = ?`, nickname)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by nickname: %w", err)
	}
	return u, nil
}

// PasswordHash returns the stored bcrypt hash for login checks, or "" when
// the user does not exist.
func (s *UserStore) PasswordHash(nickname string) (int64, string, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(`SELECT id, password_hash FROM users WHERE nickname = ?`, nickname).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("get password hash: %w", err)
	}
	return id, hash, nil
}

func (s *UserStore) UpdateProfile(id int64, avatarEmoji, bio string, isPublic bool) (*model.User, error) {
	var pub int
	if isPublic {
		pub = 1
	}
	_, err := s.db.Exec(
		`UPDATE users SET avatar_emoji = ?, bio = ?, is_public = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		avatarEmoji, bio, pub, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

// Search finds public users whose nickname contains the query, excluding
// the searching user, ordered by nickname.
func (s *UserStore) Search(query string, excludeID int64, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT `+userCols+` FROM users
		 WHERE is_public = 1 AND id != ? AND nickname LIKE '%' || ? || '%'
		 ORDER BY nickname ASC LIMIT ?`,
		excludeID, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) NicknameExists(nickname string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE nickname = ?`, nickname).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check nickname: %w", err)
	}
	return n > 0, nil
}
