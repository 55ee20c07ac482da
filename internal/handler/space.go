package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/store"
)

type SpaceHandler struct {
	spaces  *store.SpaceStore
	seasons *store.SeasonStore
	logger  *slog.Logger
}

func NewSpaceHandler(sps *store.SpaceStore, ss *store.SeasonStore, logger *slog.Logger) *SpaceHandler {
	return &SpaceHandler{spaces: sps, seasons: ss, logger: logger}
}

// Get returns the caller's own space for a season, creating an empty
// one on first access.
func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	seasonID, err := parseIDParam(r, "season_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid season id")
		return
	}
	season, err := h.seasons.GetByID(seasonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load season")
		return
	}
	if season == nil {
		writeError(w, http.StatusNotFound, "season not found")
		return
	}

	userID := auth.UserID(r.Context())
	sp, err := h.spaces.GetOrCreate(userID, seasonID)
	if err != nil {
		h.logger.Error("get space", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

// SetVisibility toggles whether the space shows up for visitors.
func (h *SpaceHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	seasonID, err := parseIDParam(r, "season_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid season id")
		return
	}

	var req struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.IsPublic == nil {
		writeError(w, http.StatusBadRequest, "is_public is required")
		return
	}

	userID := auth.UserID(r.Context())
	if _, err := h.spaces.GetOrCreate(userID, seasonID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	if err := h.spaces.SetVisibility(userID, seasonID, *req.IsPublic); err != nil {
		h.logger.Error("set visibility", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to update visibility")
		return
	}

	sp, err := h.spaces.Get(userID, seasonID)
	if err != nil || sp == nil {
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	writeJSON(w, http.StatusOK, sp)
}
