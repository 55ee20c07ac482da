package store

import (
	"database/sql"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
)

type AxisScoreStore struct {
	db *sql.DB
}

func NewAxisScoreStore(db *sql.DB) *AxisScoreStore {
	return &AxisScoreStore{db: db}
}

const axisScoreCols = `id, user_id, season_id, axis_code, total_score, answer_count, average_score, final_score, updated_at`

func scanAxisScore(scanner interface{ Scan(...any) error }) (*model.AxisScore, error) {
	var s model.AxisScore
	var code string
	err := scanner.Scan(&s.ID, &s.UserID, &s.SeasonID, &code, &s.TotalScore, &s.AnswerCount,
		&s.Average, &s.Final, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan axis score: %w", err)
	}
	s.AxisCode = axis.Code(code)
	return &s, nil
}

func (s *AxisScoreStore) Get(userID, seasonID int64, code axis.Code) (*model.AxisScore, error) {
	row := s.db.QueryRow(
		`SELECT `+axisScoreCols+` FROM axis_scores
		 WHERE user_id = ? AND season_id = ? AND axis_code = ?`,
		userID, seasonID, string(code),
	)
	return scanAxisScore(row)
}

// List returns the stored rows for a user season, one per answered axis.
func (s *AxisScoreStore) List(userID, seasonID int64) ([]model.AxisScore, error) {
	rows, err := s.db.Query(
		`SELECT `+axisScoreCols+` FROM axis_scores
		 WHERE user_id = ? AND season_id = ? ORDER BY axis_code ASC`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("list axis scores: %w", err)
	}
	defer rows.Close()

	var scores []model.AxisScore
	for rows.Next() {
		sc, err := scanAxisScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *sc)
	}
	return scores, rows.Err()
}

// Aggregates returns the user's scores as a map keyed by axis, the shape
// the similarity and eligibility code works on. Axes with no answers are
// absent from the map.
func (s *AxisScoreStore) Aggregates(userID, seasonID int64) (map[axis.Code]axis.Aggregate, error) {
	scores, err := s.List(userID, seasonID)
	if err != nil {
		return nil, err
	}
	aggregates := make(map[axis.Code]axis.Aggregate, len(scores))
	for _, sc := range scores {
		if agg := sc.Aggregate(); agg != nil {
			aggregates[sc.AxisCode] = *agg
		}
	}
	return aggregates, nil
}
