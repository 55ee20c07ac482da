package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/catalog"
	"github.com/hyejinmo/pixelo/internal/model"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrSeasonInactive   = errors.New("season is not active")
	ErrAlreadyAnswered  = errors.New("question already answered")
)

type AnswerStore struct {
	db *sql.DB
}

func NewAnswerStore(db *sql.DB) *AnswerStore {
	return &AnswerStore{db: db}
}

// SubmitResult is everything the answer endpoint reports back: the stored
// answer, the updated aggregate for the answered axis, season progress,
// and any objects unlocked by this answer.
type SubmitResult struct {
	Answer    model.Answer          `json:"answer"`
	AxisScore axis.Aggregate        `json:"axis_score"`
	Progress  model.UserSeason      `json:"progress"`
	Acquired  []catalog.Acquisition `json:"acquired"`
}

// dbtx is the subset of *sql.DB / *sql.Tx the submit flow needs.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Submit runs the whole answer flow in one transaction: store the answer,
// fold its score into the axis aggregate, advance season progress, and
// grant any newly acquirable objects. The transaction is what serializes
// concurrent submissions for the same user; the pure packages it calls
// carry no locking of their own.
func (s *AnswerStore) Submit(userID, questionID, choiceID int64) (*SubmitResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := submit(tx, userID, questionID, choiceID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return result, nil
}

func submit(tx dbtx, userID, questionID, choiceID int64) (*SubmitResult, error) {
	// Question must exist and belong to an active season.
	var question model.Question
	var totalDays, seasonActive int
	err := tx.QueryRow(
		`SELECT q.id, q.season_id, q.day_number, q.title, q.question_order, q.created_at,
		        s.total_days, s.is_active
		 FROM questions q JOIN seasons s ON s.id = q.season_id
		 WHERE q.id = ?`,
		questionID,
	).Scan(&question.ID, &question.SeasonID, &question.DayNumber, &question.Title,
		&question.QuestionOrder, &question.CreatedAt, &totalDays, &seasonActive)
	if err == sql.ErrNoRows {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if seasonActive == 0 {
		return nil, ErrSeasonInactive
	}

	// Choice must belong to the question.
	var choice model.QuestionChoice
	var code string
	err = tx.QueryRow(
		`SELECT `+choiceCols+` FROM question_choices WHERE id = ? AND question_id = ?`,
		choiceID, questionID,
	).Scan(&choice.ID, &choice.QuestionID, &choice.Label, &code, &choice.ScoreValue)
	if err == sql.ErrNoRows {
		return nil, ErrChoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get choice: %w", err)
	}
	choice.AxisCode = axis.Code(code)

	// One answer per question per user.
	var existing int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM answers WHERE user_id = ? AND question_id = ?`,
		userID, questionID,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check existing answer: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyAnswered
	}

	res, err := tx.Exec(
		`INSERT INTO answers (user_id, question_id, choice_id) VALUES (?, ?, ?)`,
		userID, questionID, choiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert answer: %w", err)
	}
	answerID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var answer model.Answer
	err = tx.QueryRow(
		`SELECT id, user_id, question_id, choice_id, answered_at FROM answers WHERE id = ?`,
		answerID,
	).Scan(&answer.ID, &answer.UserID, &answer.QuestionID, &answer.ChoiceID, &answer.AnsweredAt)
	if err != nil {
		return nil, fmt.Errorf("reload answer: %w", err)
	}

	agg, err := upsertAxisScore(tx, userID, question.SeasonID, axis.Answer{
		QuestionID: questionID,
		ChoiceID:   choiceID,
		Axis:       choice.AxisCode,
		Score:      choice.ScoreValue,
	})
	if err != nil {
		return nil, err
	}

	progress, err := advanceProgress(tx, userID, question.SeasonID, totalDays)
	if err != nil {
		return nil, err
	}

	acquired, err := grantNewObjects(tx, userID, question.SeasonID, question.DayNumber, choice.AxisCode, agg.Final)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Answer:    answer,
		AxisScore: agg,
		Progress:  *progress,
		Acquired:  acquired,
	}, nil
}

// upsertAxisScore folds one answer into the stored per-axis aggregate.
func upsertAxisScore(tx dbtx, userID, seasonID int64, ans axis.Answer) (axis.Aggregate, error) {
	var current *axis.Aggregate
	var total, count int
	err := tx.QueryRow(
		`SELECT total_score, answer_count FROM axis_scores
		 WHERE user_id = ? AND season_id = ? AND axis_code = ?`,
		userID, seasonID, string(ans.Axis),
	).Scan(&total, &count)
	if err != nil && err != sql.ErrNoRows {
		return axis.Aggregate{}, fmt.Errorf("get axis score: %w", err)
	}
	if err == nil && count > 0 {
		avg := float64(total) / float64(count)
		current = &axis.Aggregate{
			Axis:        ans.Axis,
			TotalScore:  total,
			AnswerCount: count,
			Average:     avg, // recomputed below by UpdateAxisScore from totals
		}
	}

	agg := axis.UpdateAxisScore(current, ans)

	_, err = tx.Exec(
		`INSERT INTO axis_scores (user_id, season_id, axis_code, total_score, answer_count, average_score, final_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, season_id, axis_code) DO UPDATE SET
		   total_score = excluded.total_score,
		   answer_count = excluded.answer_count,
		   average_score = excluded.average_score,
		   final_score = excluded.final_score,
		   updated_at = CURRENT_TIMESTAMP`,
		userID, seasonID, string(ans.Axis), agg.TotalScore, agg.AnswerCount, agg.Average, agg.Final,
	)
	if err != nil {
		return axis.Aggregate{}, fmt.Errorf("upsert axis score: %w", err)
	}
	return agg, nil
}

func advanceProgress(tx dbtx, userID, seasonID int64, totalDays int) (*model.UserSeason, error) {
	_, err := tx.Exec(
		`INSERT INTO user_seasons (user_id, season_id, current_day) VALUES (?, ?, 0)
		 ON CONFLICT(user_id, season_id) DO NOTHING`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure user season: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE user_seasons SET
		   current_day = current_day + 1,
		   is_completed = CASE WHEN current_day + 1 >= ? THEN 1 ELSE 0 END,
		   completed_at = CASE WHEN current_day + 1 >= ? THEN CURRENT_TIMESTAMP ELSE completed_at END
		 WHERE user_id = ? AND season_id = ?`,
		totalDays, totalDays, userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("advance progress: %w", err)
	}

	row := tx.QueryRow(
		`SELECT `+userSeasonCols+` FROM user_seasons WHERE user_id = ? AND season_id = ?`,
		userID, seasonID,
	)
	return scanUserSeason(row)
}

// grantNewObjects resolves the unlocks for this answer and inserts them.
// The acquired-id read and the inserts share the submit transaction, so a
// racing duplicate submission cannot double-grant.
func grantNewObjects(tx dbtx, userID, seasonID int64, day int, code axis.Code, score int) ([]catalog.Acquisition, error) {
	objects, err := listSeasonObjects(tx, seasonID)
	if err != nil {
		return nil, err
	}

	acquiredIDs, err := listAcquiredIDs(tx, userID)
	if err != nil {
		return nil, err
	}

	acquisitions := catalog.NewlyAcquirable(objects, day, code, score, acquiredIDs)
	for _, acq := range acquisitions {
		_, err := tx.Exec(
			`INSERT INTO user_objects (user_id, object_id, acquired_reason) VALUES (?, ?, ?)
			 ON CONFLICT(user_id, object_id) DO NOTHING`,
			userID, acq.Object.ID, acq.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("grant object %d: %w", acq.Object.ID, err)
		}
	}
	return acquisitions, nil
}

// History returns the user's answers for a season resolved to axis/score,
// ready for full recomputation.
func (s *AnswerStore) History(userID, seasonID int64) ([]axis.Answer, error) {
	rows, err := s.db.Query(
		`SELECT a.question_id, a.choice_id, c.axis_code, c.score_value
		 FROM answers a
		 JOIN question_choices c ON c.id = a.choice_id
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.user_id = ? AND q.season_id = ?
		 ORDER BY a.answered_at ASC, a.id ASC`,
		userID, seasonID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answer history: %w", err)
	}
	defer rows.Close()

	var answers []axis.Answer
	for rows.Next() {
		var ans axis.Answer
		var code string
		if err := rows.Scan(&ans.QuestionID, &ans.ChoiceID, &code, &ans.Score); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		ans.Axis = axis.Code(code)
		answers = append(answers, ans)
	}
	return answers, rows.Err()
}

// HasAnswered reports whether the user already answered a question.
func (s *AnswerStore) HasAnswered(userID, questionID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM answers WHERE user_id = ? AND question_id = ?`,
		userID, questionID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check answered: %w", err)
	}
	return n > 0, nil
}
