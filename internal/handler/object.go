package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/model"
	"github.com/hyejinmo/pixelo/internal/space"
	"github.com/hyejinmo/pixelo/internal/store"
	"github.com/hyejinmo/pixelo/internal/websocket"
)

type ObjectHandler struct {
	objects *store.ObjectStore
	spaces  *store.SpaceStore
	seasons *store.SeasonStore
	scores  *store.AxisScoreStore
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewObjectHandler(os *store.ObjectStore, sps *store.SpaceStore, ss *store.SeasonStore, xs *store.AxisScoreStore, hub *websocket.Hub, logger *slog.Logger) *ObjectHandler {
	return &ObjectHandler{
		objects: os,
		spaces:  sps,
		seasons: ss,
		scores:  xs,
		hub:     hub,
		logger:  logger,
	}
}

func (h *ObjectHandler) activeSeason(w http.ResponseWriter) *model.Season {
	season, err := h.seasons.GetActive()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load season")
		return nil
	}
	if season == nil {
		writeError(w, http.StatusNotFound, "no active season")
		return nil
	}
	return season
}

// Inventory lists everything the user owns in the active season, with
// placement state.
func (h *ObjectHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	season := h.activeSeason(w)
	if season == nil {
		return
	}
	userID := auth.UserID(r.Context())

	placed, err := h.spaces.PlacedIDs(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load layout")
		return
	}
	items, err := h.objects.Inventory(userID, season.ID, placed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	if items == nil {
		items = []model.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type placeRequest struct {
	ObjectID int64    `json:"objectId"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Scale    *float64 `json:"scale"`
	Rotation int      `json:"rotation"`
	ZIndex   *int     `json:"zIndex"`
}

// Place puts an owned object into the user's space. Omitting zIndex
// stacks the object on top.
func (h *ObjectHandler) Place(w http.ResponseWriter, r *http.Request) {
	season := h.activeSeason(w)
	if season == nil {
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.ObjectID == 0 {
		writeError(w, http.StatusBadRequest, "objectId is required")
		return
	}
	// Only an absent scale defaults; an explicit out-of-range value is
	// rejected by the layout engine.
	scale := 1.0
	if req.Scale != nil {
		scale = *req.Scale
	}

	p := space.Placement{
		ObjectID: req.ObjectID,
		X:        req.X,
		Y:        req.Y,
		Scale:    scale,
		Rotation: req.Rotation,
	}
	autoZ := req.ZIndex == nil
	if !autoZ {
		p.ZIndex = *req.ZIndex
	}

	userID := auth.UserID(r.Context())
	sp, err := h.spaces.Place(userID, season.ID, p, autoZ)
	var perr *store.PlacementError
	switch {
	case errors.Is(err, store.ErrObjectNotOwned):
		writeError(w, http.StatusForbidden, "object not in inventory")
		return
	case errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, perr.Reason)
		return
	case err != nil:
		h.logger.Error("place object", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to place object")
		return
	}

	h.notifySpaceUpdated(userID, season.ID)

	writeJSON(w, http.StatusOK, sp)
}

// Remove takes an object out of the layout; the object stays owned.
func (h *ObjectHandler) Remove(w http.ResponseWriter, r *http.Request) {
	season := h.activeSeason(w)
	if season == nil {
		return
	}

	objectID, err := parseIDParam(r, "object_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}

	userID := auth.UserID(r.Context())
	sp, err := h.spaces.RemoveObject(userID, season.ID, objectID)
	switch {
	case errors.Is(err, store.ErrObjectNotPlaced):
		writeError(w, http.StatusNotFound, "object not placed")
		return
	case err != nil:
		h.logger.Error("remove object", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to remove object")
		return
	}

	h.notifySpaceUpdated(userID, season.ID)

	writeJSON(w, http.StatusOK, sp)
}

// Sync grants anything the user's current scores entitle them to but
// that is missing from the inventory.
func (h *ObjectHandler) Sync(w http.ResponseWriter, r *http.Request) {
	season := h.activeSeason(w)
	if season == nil {
		return
	}
	userID := auth.UserID(r.Context())

	aggregates, err := h.scores.Aggregates(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}

	granted, err := h.objects.SyncAcquired(userID, season.ID, aggregates)
	if err != nil {
		h.logger.Error("sync objects", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to sync objects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"granted": granted,
		"count":   len(granted),
	})
}

func (h *ObjectHandler) notifySpaceUpdated(userID, seasonID int64) {
	if h.hub == nil {
		return
	}
	h.hub.SendToUsers([]int64{userID}, websocket.NewMessage("space", "updated", userID, map[string]any{
		"season_id": seasonID,
	}))
}
