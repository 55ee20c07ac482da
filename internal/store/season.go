package store

import (
	"database/sql"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/model"
)

type SeasonStore struct {
	db *sql.DB
}

func NewSeasonStore(db *sql.DB) *SeasonStore {
	return &SeasonStore{db: db}
}

func scanSeason(scanner interface{ Scan(...any) error }) (*model.Season, error) {
	var season model.Season
	var active int
	err := scanner.Scan(&season.ID, &season.Name, &season.TotalDays, &active, &season.CreatedAt)
	if err != nil {
		return nil, err
	}
	season.IsActive = active != 0
	return &season, nil
}

const seasonCols = `id, name, total_days, is_active, created_at`

func (s *SeasonStore) Create(name string, totalDays int, isActive bool) (*model.Season, error) {
	var active int
	if isActive {
		active = 1
	}
	result, err := s.db.Exec(
		`INSERT INTO seasons (name, total_days, is_active) VALUES (?, ?, ?)`,
		name, totalDays, active,
	)
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SeasonStore) GetByID(id int64) (*model.Season, error) {
	row := s.db.QueryRow(`SELECT `+seasonCols+` FROM seasons WHERE id = ?`, id)
	season, err := scanSeason(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	return season, nil
}

// GetActive returns the currently active season, or nil when none is.
func (s *SeasonStore) GetActive() (*model.Season, error) {
	row := s.db.QueryRow(`SELECT ` + seasonCols + ` FROM seasons WHERE is_active = 1 ORDER BY id DESC LIMIT 1`)
	season, err := scanSeason(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active season: %w", err)
	}
	return season, nil
}

func (s *SeasonStore) List() ([]model.Season, error) {
	rows, err := s.db.Query(`SELECT ` + seasonCols + ` FROM seasons ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer rows.Close()

	var seasons []model.Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, *season)
	}
	return seasons, rows.Err()
}

func scanUserSeason(scanner interface{ Scan(...any) error }) (*model.UserSeason, error) {
	var us model.UserSeason
	var completed int
	var completedAt sql.NullTime
	err := scanner.Scan(&us.ID, &us.UserID, &us.SeasonID, &us.CurrentDay, &completed, &completedAt)
	if err != nil {
		return nil, err
	}
	us.IsCompleted = completed != 0
	if completedAt.Valid {
		us.CompletedAt = &completedAt.Time
	}
	return &us, nil
}

const userSeasonCols = `id, user_id, season_id, current_day, is_completed, completed_at`

// GetOrCreateProgress returns the user's progress row for a season,
// creating it at day 0 on first touch.
func (s *SeasonStore) GetOrCreateProgress(userID, seasonID int64) (*model.UserSeason, error) {
	us, err := s.getProgress(s.db, userID, seasonID)
	if err != nil {
		return nil, err
	}
	if us != nil {
		return us, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO user_seasons (user_id, season_id, current_day) VALUES (?, ?, 0)
		 ON CONFLICT(user_id, season_id) DO NOTHING`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user season: %w", err)
	}
	return s.getProgress(s.db, userID, seasonID)
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *SeasonStore) getProgress(q querier, userID, seasonID int64) (*model.UserSeason, error) {
	row := q.QueryRow(
		`SELECT `+userSeasonCols+` FROM user_seasons WHERE user_id = ? AND season_id = ?`,
		userID, seasonID,
	)
	us, err := scanUserSeason(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user season: %w", err)
	}
	return us, nil
}
