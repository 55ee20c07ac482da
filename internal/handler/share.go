package handler

import (
	"log/slog"
	"net/http"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/share"
	"github.com/hyejinmo/pixelo/internal/store"
)

type ShareHandler struct {
	signer  *share.Signer
	users   *store.UserStore
	spaces  *store.SpaceStore
	seasons *store.SeasonStore
	scores  *store.AxisScoreStore
	baseURL string
	logger  *slog.Logger
}

func NewShareHandler(signer *share.Signer, us *store.UserStore, sps *store.SpaceStore, ss *store.SeasonStore, xs *store.AxisScoreStore, baseURL string, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		signer:  signer,
		users:   us,
		spaces:  sps,
		seasons: ss,
		scores:  xs,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Create mints a share link for the caller's space in the active season.
// The link works without a session until the token expires.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasons.GetActive()
	if err != nil || season == nil {
		writeError(w, http.StatusNotFound, "no active season")
		return
	}

	userID := auth.UserID(r.Context())
	if _, err := h.spaces.GetOrCreate(userID, season.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}

	token, err := h.signer.Issue(userID, season.ID)
	if err != nil {
		h.logger.Error("issue share token", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to create share link")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"url":   h.baseURL + "/share/" + token,
	})
}

// View serves a shared space. No session required; the token itself is
// the authorization.
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	claims, err := h.signer.Verify(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "share link is invalid or expired")
		return
	}

	user, err := h.users.GetByID(claims.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "share link is invalid or expired")
		return
	}
	season, err := h.seasons.GetByID(claims.SeasonID)
	if err != nil || season == nil {
		writeError(w, http.StatusNotFound, "share link is invalid or expired")
		return
	}

	sp, err := h.spaces.Get(claims.UserID, claims.SeasonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	if sp == nil {
		writeError(w, http.StatusNotFound, "share link is invalid or expired")
		return
	}

	aggregates, err := h.scores.Aggregates(claims.UserID, claims.SeasonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}
	scores := make([]axis.Aggregate, 0, len(aggregates))
	for _, code := range axis.AllCodes {
		if agg, ok := aggregates[code]; ok {
			scores = append(scores, agg)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":   user,
		"season": season,
		"space":  sp,
		"scores": scores,
	})
}
