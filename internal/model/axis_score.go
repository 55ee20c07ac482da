package model

import (
	"time"

	"github.com/hyejinmo/pixelo/internal/axis"
)

// AxisScore is the persisted per-(user, season, axis) aggregate row.
// Average and Final are nil until the first answer lands on the axis.
type AxisScore struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	SeasonID    int64     `json:"season_id"`
	AxisCode    axis.Code `json:"axis_code"`
	TotalScore  int       `json:"total_score"`
	AnswerCount int       `json:"answer_count"`
	Average     *float64  `json:"average_score"`
	Final       *int      `json:"final_score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Aggregate converts the row into the in-memory aggregate shape, or nil
// when the axis has no answers yet.
func (s *AxisScore) Aggregate() *axis.Aggregate {
	if s == nil || s.AnswerCount == 0 || s.Average == nil || s.Final == nil {
		return nil
	}
	return &axis.Aggregate{
		Axis:        s.AxisCode,
		TotalScore:  s.TotalScore,
		AnswerCount: s.AnswerCount,
		Average:     *s.Average,
		Final:       *s.Final,
	}
}
