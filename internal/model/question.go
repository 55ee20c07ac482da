package model

import (
	"time"

	"github.com/hyejinmo/pixelo/internal/axis"
)

type Question struct {
	ID            int64     `json:"id"`
	SeasonID      int64     `json:"season_id"`
	DayNumber     int       `json:"day_number"`
	Title         string    `json:"title"`
	QuestionOrder int       `json:"question_order"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionChoice maps one selectable option to an axis and a 1-5 score.
type QuestionChoice struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Label      string    `json:"label"`
	AxisCode   axis.Code `json:"axis_code"`
	ScoreValue int       `json:"score_value"`
}

type Answer struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	ChoiceID   int64     `json:"choice_id"`
	AnsweredAt time.Time `json:"answered_at"`
}
