package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/hyejinmo/pixelo/internal/auth"
	"github.com/hyejinmo/pixelo/internal/store"
)

const sessionCookieName = "pixelo_session"

type AuthHandler struct {
	users    *store.UserStore
	sessions *store.SessionStore
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore) *AuthHandler {
	return &AuthHandler{users: us, sessions: ss}
}

type registerRequest struct {
	Nickname    string `json:"nickname"`
	Password    string `json:"password"`
	AvatarEmoji string `json:"avatar_emoji"`
}

type loginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func validNickname(s string) bool {
	if n := utf8.RuneCountInString(s); n < 2 || n > 20 {
		return false
	}
	for _, c := range s {
		if c == ' ' || c == '\t' || c == '\n' {
			return false
		}
	}
	return true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Nickname = strings.TrimSpace(req.Nickname)
	if !validNickname(req.Nickname) {
		writeError(w, http.StatusBadRequest, "nickname must be 2-20 characters without spaces")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.AvatarEmoji == "" {
		req.AvatarEmoji = "🙂"
	}

	exists, err := h.users.NicknameExists(req.Nickname)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check nickname")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "nickname is taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := h.users.Create(req.Nickname, string(hash), req.AvatarEmoji)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	if err := h.startSession(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	userID, hash, err := h.users.PasswordHash(strings.TrimSpace(req.Nickname))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	// Compare against an empty hash too so unknown nicknames take the
	// same time as wrong passwords.
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil || userID == 0 {
		writeError(w, http.StatusUnauthorized, "invalid nickname or password")
		return
	}

	if err := h.startSession(w, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := auth.SessionID(r.Context()); sid != 0 {
		h.sessions.Delete(sid)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	AvatarEmoji string `json:"avatar_emoji"`
	Bio         string `json:"bio"`
	IsPublic    bool   `json:"is_public"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AvatarEmoji == "" {
		writeError(w, http.StatusBadRequest, "avatar_emoji is required")
		return
	}

	user, err := h.users.UpdateProfile(auth.UserID(r.Context()), req.AvatarEmoji, req.Bio, req.IsPublic)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, userID int64) error {
	sess, err := h.sessions.Create(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
