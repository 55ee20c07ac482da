package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/axis"
	"github.com/hyejinmo/pixelo/internal/model"
	"github.com/hyejinmo/pixelo/internal/store"
	"github.com/hyejinmo/pixelo/internal/websocket"
)

const searchLimit = 20

type SocialHandler struct {
	users       *store.UserStore
	friendships *store.FriendshipStore
	spaces      *store.SpaceStore
	seasons     *store.SeasonStore
	scores      *store.AxisScoreStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewSocialHandler(us *store.UserStore, fs *store.FriendshipStore, sps *store.SpaceStore, ss *store.SeasonStore, xs *store.AxisScoreStore, hub *websocket.Hub, logger *slog.Logger) *SocialHandler {
	return &SocialHandler{
		users:       us,
		friendships: fs,
		spaces:      sps,
		seasons:     ss,
		scores:      xs,
		hub:         hub,
		logger:      logger,
	}
}

func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	friends, err := h.friendships.List(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load friends")
		return
	}
	if friends == nil {
		friends = []model.Friend{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	target, err := h.users.GetByID(targetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	userID := auth.UserID(r.Context())
	switch err := h.friendships.Follow(userID, targetID); {
	case errors.Is(err, store.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, "cannot follow yourself")
		return
	case errors.Is(err, store.ErrAlreadyFollowing):
		writeError(w, http.StatusConflict, "already following")
		return
	case err != nil:
		h.logger.Error("follow", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to follow")
		return
	}

	if h.hub != nil {
		h.hub.SendToUsers([]int64{targetID}, websocket.NewMessage("friend", "followed", userID, nil))
	}

	writeJSON(w, http.StatusCreated, map[string]any{"following": true, "user": target})
}

func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	userID := auth.UserID(r.Context())
	switch err := h.friendships.Unfollow(userID, targetID); {
	case errors.Is(err, store.ErrNotFollowing):
		writeError(w, http.StatusNotFound, "not following")
		return
	case err != nil:
		h.logger.Error("unfollow", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to unfollow")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"following": false})
}

// Search finds public users by nickname prefix.
func (h *SocialHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	userID := auth.UserID(r.Context())
	users, err := h.users.Search(query, userID, searchLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type compareAxis struct {
	Axis     axis.Code `json:"axis_code"`
	Name     string    `json:"name"`
	Mine     *float64  `json:"mine"`
	Theirs   *float64  `json:"theirs"`
	Distance *float64  `json:"distance"`
}

// Compare scores the caller against another user in the active season.
// Private users are only comparable by people they follow back.
func (h *SocialHandler) Compare(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	userID := auth.UserID(r.Context())
	if targetID == userID {
		writeError(w, http.StatusBadRequest, "cannot compare with yourself")
		return
	}

	target, ok := h.loadVisibleUser(w, userID, targetID)
	if !ok {
		return
	}

	season, err := h.seasons.GetActive()
	if err != nil || season == nil {
		writeError(w, http.StatusNotFound, "no active season")
		return
	}

	mine, err := h.scores.Aggregates(userID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}
	theirs, err := h.scores.Aggregates(targetID, season.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load scores")
		return
	}

	axes := make([]compareAxis, 0, len(axis.AllCodes))
	for _, code := range axis.AllCodes {
		meta, _ := axis.MetadataFor(code)
		row := compareAxis{Axis: code, Name: meta.Name}
		ma, okM := mine[code]
		ta, okT := theirs[code]
		if okM {
			v := ma.Average
			row.Mine = &v
		}
		if okT {
			v := ta.Average
			row.Theirs = &v
		}
		if okM && okT {
			d := ma.Average - ta.Average
			if d < 0 {
				d = -d
			}
			row.Distance = &d
		}
		axes = append(axes, row)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       target,
		"season":     season,
		"similarity": axis.Similarity(mine, theirs),
		"axes":       axes,
	})
}

// Visit returns another user's space for a season. A private space is
// visible only to mutual friends.
func (h *SocialHandler) Visit(w http.ResponseWriter, r *http.Request) {
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	seasonID, err := parseIDParam(r, "season_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid season id")
		return
	}

	userID := auth.UserID(r.Context())
	target, ok := h.loadVisibleUser(w, userID, targetID)
	if !ok {
		return
	}

	sp, err := h.spaces.Get(targetID, seasonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load space")
		return
	}
	if sp == nil {
		writeError(w, http.StatusNotFound, "space not found")
		return
	}
	if !sp.IsPublic && targetID != userID {
		mutual, err := h.isMutual(userID, targetID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load friendship")
			return
		}
		if !mutual {
			writeError(w, http.StatusForbidden, "space is private")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  target,
		"space": sp,
	})
}

// loadVisibleUser fetches targetID and enforces profile visibility: a
// private profile is reachable only through a mutual friendship.
func (h *SocialHandler) loadVisibleUser(w http.ResponseWriter, userID, targetID int64) (*model.User, bool) {
	target, err := h.users.GetByID(targetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return nil, false
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	if !target.IsPublic && targetID != userID {
		mutual, err := h.isMutual(userID, targetID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load friendship")
			return nil, false
		}
		if !mutual {
			writeError(w, http.StatusForbidden, "profile is private")
			return nil, false
		}
	}
	return target, true
}

func (h *SocialHandler) isMutual(userID, targetID int64) (bool, error) {
	following, err := h.friendships.IsFollowing(userID, targetID)
	if err != nil || !following {
		return false, err
	}
	return h.friendships.IsFollowing(targetID, userID)
}
