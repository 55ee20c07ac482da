package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hyejinmo/pixelo/internal/backup"
	"github.com/hyejinmo/pixelo/internal/config"
	"github.com/hyejinmo/pixelo/internal/handler"
	"github.com/hyejinmo/pixelo/internal/middleware"
	"github.com/hyejinmo/pixelo/internal/push"
	"github.com/hyejinmo/pixelo/internal/share"
	"github.com/hyejinmo/pixelo/internal/store"
	ws "github.com/hyejinmo/pixelo/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	questionH     *handler.QuestionHandler
	objectH       *handler.ObjectHandler
	spaceH        *handler.SpaceHandler
	socialH       *handler.SocialHandler
	shareH        *handler.ShareHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushService   *push.Service
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	seasonStore := store.NewSeasonStore(db)
	questionStore := store.NewQuestionStore(db)
	answerStore := store.NewAnswerStore(db)
	axisScoreStore := store.NewAxisScoreStore(db)
	objectStore := store.NewObjectStore(db)
	spaceStore := store.NewSpaceStore(db)
	friendshipStore := store.NewFriendshipStore(db)
	pushStore := store.NewPushStore(db)

	backupLogger := logger.With("component", "backup")
	pushLogger := logger.With("component", "push")

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.Endpoint,
			Bucket:    cfg.Backup.Bucket,
			Region:    cfg.Backup.Region,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
		},
		DBPath:   cfg.DBPath,
		Interval: cfg.Backup.Interval,
	}, db, backupLogger)

	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.Push.Enabled() {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
		pushSched = push.NewScheduler(pushSvc, pushStore, questionStore, seasonStore, cfg.Push.ReminderHour)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}

	var shareH *handler.ShareHandler
	if cfg.ShareSecret != "" {
		signer := share.NewSigner(cfg.ShareSecret, cfg.ShareTTL)
		shareH = handler.NewShareHandler(signer, userStore, spaceStore, seasonStore, axisScoreStore, cfg.BaseURL, logger.With("component", "share"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore),
		questionH:     handler.NewQuestionHandler(questionStore, answerStore, seasonStore, axisScoreStore, friendshipStore, hub, logger.With("component", "question")),
		objectH:       handler.NewObjectHandler(objectStore, spaceStore, seasonStore, axisScoreStore, hub, logger.With("component", "object")),
		spaceH:        handler.NewSpaceHandler(spaceStore, seasonStore, logger.With("component", "space")),
		socialH:       handler.NewSocialHandler(userStore, friendshipStore, spaceStore, seasonStore, axisScoreStore, hub, logger.With("component", "social")),
		shareH:        shareH,
		pushH:         pushH,
		sessionStore:  sessionStore,
		pushStore:     pushStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		pushService:   pushSvc,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the snapshot manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the reminder scheduler, nil when push is not
// configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	if s.shareH != nil {
		outerMux.HandleFunc("GET /share/{token}", s.shareH.View)
	}

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Profile
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me", s.authH.UpdateProfile)

	// Daily questions
	mux.HandleFunc("GET /api/questions/today", s.questionH.Today)
	mux.HandleFunc("POST /api/questions/answer", s.questionH.Answer)
	mux.HandleFunc("GET /api/questions/progress", s.questionH.Progress)

	// Objects
	mux.HandleFunc("GET /api/objects/inventory", s.objectH.Inventory)
	mux.HandleFunc("POST /api/objects/place", s.objectH.Place)
	mux.HandleFunc("DELETE /api/objects/place/{object_id}", s.objectH.Remove)
	mux.HandleFunc("POST /api/objects/sync", s.objectH.Sync)

	// Spaces
	mux.HandleFunc("GET /api/spaces/{season_id}", s.spaceH.Get)
	mux.HandleFunc("PUT /api/spaces/{season_id}/visibility", s.spaceH.SetVisibility)

	// Social
	mux.HandleFunc("GET /api/social/friends", s.socialH.Friends)
	mux.HandleFunc("POST /api/social/friends/{user_id}", s.socialH.Follow)
	mux.HandleFunc("DELETE /api/social/friends/{user_id}", s.socialH.Unfollow)
	mux.HandleFunc("GET /api/social/search", s.socialH.Search)
	mux.HandleFunc("GET /api/social/compare/{user_id}", s.socialH.Compare)
	mux.HandleFunc("GET /api/social/visit/{user_id}/{season_id}", s.socialH.Visit)

	// Share links
	if s.shareH != nil {
		mux.HandleFunc("POST /api/share", s.shareH.Create)
	}

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
