package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/FamilyBoT/internal/apperrors"
	"github.com/Kerhoff/FamilyBoT/internal/service"
)

// UpdateHandler receives Telegram updates pushed to the webhook.
type UpdateHandler interface {
	HandleWebhook(update tgbotapi.Update)
}

// Server provides the read-only HTTP API and the Telegram webhook. API
// routes never change game state.
type Server struct {
	svc     *service.Service
	updates UpdateHandler
	logger  *logrus.Logger
	router  chi.Router
}

// NewServer creates a Server and registers all routes. updates may be nil
// when the bot runs with long polling.
func NewServer(svc *service.Service, updates UpdateHandler, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, updates: updates, logger: logger, router: chi.NewRouter()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/shop", s.handleGetShop)
		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Get("/families", s.handleGetFamilies)
			r.Get("/users/{userID}/profile", s.handleGetProfile)
			r.Get("/users/{userID}/quests", s.handleGetQuests)
		})
	})

	if s.updates != nil {
		s.router.Post("/telegram/webhook", s.handleWebhook)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps an engine error to an HTTP status. Storage
// failures are logged and hidden from the client.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code == apperrors.CodeStorage {
		s.logger.WithError(err).Error("API request failed")
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	status := http.StatusBadRequest
	switch appErr.Code {
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeConflict:
		status = http.StatusConflict
	case apperrors.CodeCooldown:
		status = http.StatusTooManyRequests
	}
	s.respondJSON(w, status, map[string]string{"error": appErr.Message, "code": string(appErr.Code)})
}

// pathInt extracts a numeric path parameter.
func pathInt(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s in path", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return id, nil
}

// chatUser reads {chatID} and {userID}. It writes an error response and
// returns false when either is invalid.
func (s *Server) chatUser(w http.ResponseWriter, r *http.Request) (chatID, userID int64, ok bool) {
	chatID, err := pathInt(r, "chatID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	userID, err = pathInt(r, "userID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return chatID, userID, true
}
