package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
	"github.com/hyejinmo/pixelo/internal/store"
	"github.com/hyejinmo/pixelo/internal/websocket"
)

type QuestionHandler struct {
	questions   *store.QuestionStore
	answers     *store.AnswerStore
	seasons     *store.SeasonStore
	scores      *store.AxisScoreStore
	friendships *store.FriendshipStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewQuestionHandler(qs *store.QuestionStore, as *store.AnswerStore, ss *store.SeasonStore, xs *store.AxisScoreStore, fs *store.FriendshipStore, hub *websocket.Hub, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions:   qs,
		answers:     as,
		seasons:     ss,
		scores:      xs,
		friendships: fs,
		hub:         hub,
		logger:      logger,
	}
}

type todayQuestion struct {
	Question model.Question         `json:"question"`
	Choices  []model.QuestionChoice `json:"choices"`
}

// Today returns the user's next unanswered day of questions in the
// active season.
func (h *QuestionHandler) Today(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasons.GetActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load season")
		return
	}
	if season == nil {
		writeError(w, http.StatusNotFound, "no active season")
		return
	}

	userID := auth.UserID(r.Context())
	next, err := h.questions.ListUnanswered(userID, season.ID, 1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	var questions []model.Question
	if len(next) > 0 {
		day, err := h.questions.ListForDay(season.ID, next[0].DayNumber)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load questions")
			return
		}
		for _, q := range day {
			answered, err := h.answers.HasAnswered(userID, q.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to load questions")
				return
			}
			if !answered {
				questions = append(questions, q)
			}
		}
	}

	payload := []todayQuestion{}
	for _, q := range questions {
		choices, err := h.questions.ListChoices(q.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load choices")
			return
		}
		payload = append(payload, todayQuestion{Question: q, Choices: choices})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"season":    season,
		"questions": payload,
	})
}

type answerRequest struct {
	QuestionID int64 `json:"question_id"`
	ChoiceID   int64 `json:"choice_id"`
}

// Answer submits one answer and reports the updated axis aggregate and
// any objects it unlocked.
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.QuestionID == 0 || req.ChoiceID == 0 {
		writeError(w, http.StatusBadRequest, "question_id and choice_id are required")
		return
	}

	userID := auth.UserID(r.Context())
	result, err := h.answers.Submit(userID, req.QuestionID, req.ChoiceID)
	switch {
	case errors.Is(err, store.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, "question not found")
		return
	case errors.Is(err, store.ErrChoiceNotFound):
		writeError(w, http.StatusBadRequest, "choice does not belong to question")
		return
	case errors.Is(err, store.ErrSeasonInactive):
		writeError(w, http.StatusConflict, "season is no longer active")
		return
	case errors.Is(err, store.ErrAlreadyAnswered):
		writeError(w, http.StatusConflict, "question already answered")
		return
	case err != nil:
		h.logger.Error("submit answer", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to submit answer")
		return
	}

	h.notifyAcquisitions(userID, result)

	writeJSON(w, http.StatusCreated, result)
}

// notifyAcquisitions pushes unlock events to the user's own connections
// and to their followers.
func (h *QuestionHandler) notifyAcquisitions(userID int64, result *store.SubmitResult) {
	if h.hub == nil || len(result.Acquired) == 0 {
		return
	}

	recipients := []int64{userID}
	if h.friendships != nil {
		followers, err := h.friendships.FollowerIDs(userID)
		if err != nil {
			h.logger.Warn("list followers for event", "error", err)
		} else {
			recipients = append(recipients, followers...)
		}
	}

	for _, acq := range result.Acquired {
		h.hub.SendToUsers(recipients, websocket.NewMessage("object", "acquired", userID, map[string]any{
			"object_id": acq.Object.ID,
			"name":      acq.Object.Name,
			"reason":    acq.Reason,
		}))
	}
}

// Progress returns season progress plus the full per-axis score map.
func (h *QuestionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasons.GetActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load season")
		return
	}
	if season == nil {
		writeError(w, http.StatusNotFound, "no active season")
		return
	}

	userID := auth.UserID(r.Context())
	progress, err := h.seasons.GetOrCreateProgress(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	aggregates, err := h.scores.Aggregates(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}

	answered, err := h.questions.CountAnswered(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count answers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"season":         season,
		"progress":       progress,
		"answered_count": answered,
		"scores":         scoreRows(aggregates),
	})
}

type scoreRow struct {
	axis.Aggregate
	Name       string `json:"name"`
	LowEnd     string `json:"low_end"`
	HighEnd    string `json:"high_end"`
	RangeLabel string `json:"range_label"`
	Tendency   string `json:"tendency"`
}

// scoreRows joins stored aggregates with axis metadata, one row per axis
// in canonical order. Axes without answers are omitted.
func scoreRows(aggregates map[axis.Code]axis.Aggregate) []scoreRow {
	rows := []scoreRow{}
	for _, code := range axis.AllCodes {
		agg, ok := aggregates[code]
		if !ok {
			continue
		}
		meta, _ := axis.MetadataFor(code)
		rows = append(rows, scoreRow{
			Aggregate:  agg,
			Name:       meta.Name,
			LowEnd:     meta.LowEnd,
			HighEnd:    meta.HighEnd,
			RangeLabel: axis.ScoreRangeLabel(agg.Average).Label,
			Tendency:   axis.TendencyDescription(code, agg.Average),
		})
	}
	return rows
}
