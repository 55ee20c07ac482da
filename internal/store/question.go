package store

import (
	"database/sql"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
)

type QuestionStore struct {
	db *sql.DB
}

func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

func scanQuestion(scanner interface{ Scan(...any) error }) (*model.Question, error) {
	var q model.Question
	err := scanner.Scan(&q.ID, &q.SeasonID, &q.DayNumber, &q.Title, &q.QuestionOrder, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

const questionCols = `id, season_id, day_number, title, question_order, created_at`

func (s *QuestionStore) Create(seasonID int64, dayNumber int, title string, order int) (*model.Question, error) {
	result, err := s.db.Exec(
		`INSERT INTO questions (season_id, day_number, title, question_order) VALUES (?, ?, ?, ?)`,
		seasonID, dayNumber, title, order,
	)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *QuestionStore) GetByID(id int64) (*model.Question, error) {
	row := s.db.QueryRow(`SELECT `+questionCols+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *QuestionStore) AddChoice(questionID int64, label string, code axis.Code, scoreValue int) (*model.QuestionChoice, error) {
	result, err := s.db.Exec(
		`INSERT INTO question_choices (question_id, label, axis_code, score_value) VALUES (?, ?, ?, ?)`,
		questionID, label, string(code), scoreValue,
	)
	if err != nil {
		return nil, fmt.Errorf("insert choice: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetChoice(id)
}

func scanChoice(scanner interface{ Scan(...any) error }) (*model.QuestionChoice, error) {
	var c model.QuestionChoice
	var code string
	err := scanner.Scan(&c.ID, &c.QuestionID, &c.Label, &code, &c.ScoreValue)
	if err != nil {
		return nil, err
	}
	c.AxisCode = axis.Code(code)
	return &c, nil
}

const choiceCols = `id, question_id, label, axis_code, score_value`

func (s *QuestionStore) GetChoice(id int64) (*model.QuestionChoice, error) {
	row := s.db.QueryRow(`SELECT `+choiceCols+` FROM question_choices WHERE id = ?`, id)
	c, err := scanChoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get choice: %w", err)
	}
	return c, nil
}

func (s *QuestionStore) ListChoices(questionID int64) ([]model.QuestionChoice, error) {
	rows, err := s.db.Query(`SELECT `+choiceCols+` FROM question_choices WHERE question_id = ? ORDER BY id ASC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list choices: %w", err)
	}
	defer rows.Close()

	var choices []model.QuestionChoice
	for rows.Next() {
		c, err := scanChoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan choice: %w", err)
		}
		choices = append(choices, *c)
	}
	return choices, rows.Err()
}

// ListForDay returns a season's questions for one day, in question order.
func (s *QuestionStore) ListForDay(seasonID int64, day int) ([]model.Question, error) {
	rows, err := s.db.Query(
		`SELECT `+questionCols+` FROM questions WHERE season_id = ? AND day_number = ?
		 ORDER BY question_order ASC, id ASC`,
		seasonID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions for day: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// ListUnanswered returns the season's questions the user has not answered
// yet, up to limit, in day/question order.
func (s *QuestionStore) ListUnanswered(userID, seasonID int64, limit int) ([]model.Question, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(
		`SELECT `+questionCols+` FROM questions q
		 WHERE q.season_id = ?
		   AND NOT EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id AND a.user_id = ?)
		 ORDER BY q.day_number ASC, q.question_order ASC, q.id ASC
		 LIMIT ?`,
		seasonID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list unanswered questions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// CountAnswered returns how many of the season's questions the user has
// answered.
func (s *QuestionStore) CountAnswered(userID, seasonID int64) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.user_id = ? AND q.season_id = ?`,
		userID, seasonID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count answered: %w", err)
	}
	return n, nil
}
