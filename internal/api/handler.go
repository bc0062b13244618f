package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/service"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// ActionResponse reports whether an input was applied and the session after it.
// Inputs the session does not accept in its current state are not errors.
type ActionResponse struct {
	Applied bool               `json:"applied"`
	Shot    *engine.ShotResult `json:"shot,omitempty"`
	Session engine.Snapshot    `json:"session"`
}

// InstructionsResponse is the how-to-play payload.
type InstructionsResponse struct {
	Instructions []string        `json:"instructions"`
	Levels       []LevelInfo     `json:"levels"`
	Weapons      []engine.Weapon `json:"weapons"`
}

// LevelInfo describes a selectable level.
type LevelInfo struct {
	ID     engine.Level `json:"id"`
	Label  string       `json:"label"`
	Budget int          `json:"budget"`
}

// Handler holds all HTTP handlers
type Handler struct {
	games          *service.GameService
	logger         *logger.Logger
	requestTimeout time.Duration
	originPatterns []string
}

// NewHandler creates a new handler
func NewHandler(games *service.GameService, log *logger.Logger, originPatterns []string) *Handler {
	return &Handler{
		games:          games,
		logger:         log,
		requestTimeout: 10 * time.Second,
		originPatterns: originPatterns,
	}
}

// Routes sets up all routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(PlayerMiddleware)
	r.Use(LoggingMiddleware(h.logger))

	// Health check
	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		timeout := middleware.Timeout(h.requestTimeout)

		r.With(timeout).Get("/instructions", h.Instructions)
		r.With(timeout).Get("/leaderboard", h.Leaderboard)
		r.With(timeout).Get("/players/{id}/matches", h.PlayerMatches)
		r.With(timeout).Post("/sessions", h.CreateSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			// The event stream is long lived and must not inherit the request timeout
			r.Get("/ws", h.SessionStream)

			r.Group(func(r chi.Router) {
				r.Use(timeout)
				r.Get("/", h.GetSession)
				r.Delete("/", h.CloseSession)
				r.Post("/start", h.StartSession)
				r.Post("/shoot", h.Shoot)
				r.Post("/pointer", h.MovePointer)
				r.Post("/weapon", h.SwitchWeapon)
				r.Post("/pause", h.Pause)
				r.Post("/resume", h.Resume)
				r.Post("/restart", h.Restart)
				r.Post("/save", h.SaveSession)
			})
		})
	})

	return r
}

// Health handles health check requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"sessions": strconv.Itoa(h.games.Count()),
	})
}

// Instructions handles GET /v1/instructions
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	levels := make([]LevelInfo, 0, len(engine.Levels))
	for _, level := range engine.Levels {
		levels = append(levels, LevelInfo{ID: level, Label: level.Label(), Budget: level.Budget()})
	}
	h.respondJSON(w, http.StatusOK, InstructionsResponse{
		Instructions: h.games.Rules().Instructions(),
		Levels:       levels,
		Weapons:      engine.Weapons,
	})
}

// CreateSession handles POST /v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	player := GetPlayer(r.Context())
	ctrl, err := h.games.CreateSession(r.Context(), player, req)
	if err != nil {
		h.fail(w, r, "failed to create session", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, ctrl.Snapshot())
}

// GetSession handles GET /v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, ctrl.Snapshot())
}

// StartSession handles POST /v1/sessions/{id}/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.StartSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	current := ctrl.Snapshot()
	level := current.Level
	if req.Level != "" {
		parsed, valid := engine.ParseLevel(req.Level)
		if !valid {
			h.fail(w, r, "failed to start session", service.ErrInvalidLevel)
			return
		}
		level = parsed
	}
	weapon := current.Weapon
	if req.Weapon != nil {
		if *req.Weapon < 0 || *req.Weapon >= len(engine.Weapons) {
			h.fail(w, r, "failed to start session", service.ErrInvalidWeapon)
			return
		}
		weapon = *req.Weapon
	}

	applied := ctrl.Start(level, weapon)
	h.respondJSON(w, http.StatusOK, ActionResponse{Applied: applied, Session: ctrl.Snapshot()})
}

// Shoot handles POST /v1/sessions/{id}/shoot
func (h *Handler) Shoot(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.PointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result := ctrl.Shoot(req.X, req.Y)
	h.respondJSON(w, http.StatusOK, ActionResponse{Applied: result.Applied, Shot: &result, Session: ctrl.Snapshot()})
}

// MovePointer handles POST /v1/sessions/{id}/pointer
func (h *Handler) MovePointer(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.PointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ctrl.MovePointer(req.X, req.Y)
	h.respondJSON(w, http.StatusOK, ActionResponse{Applied: true, Session: ctrl.Snapshot()})
}

// SwitchWeapon handles POST /v1/sessions/{id}/weapon
func (h *Handler) SwitchWeapon(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(ctrl *engine.Controller) bool {
		_, applied := ctrl.SwitchWeapon()
		return applied
	})
}

// Pause handles POST /v1/sessions/{id}/pause
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, (*engine.Controller).Pause)
}

// Resume handles POST /v1/sessions/{id}/resume
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, (*engine.Controller).Resume)
}

// Restart handles POST /v1/sessions/{id}/restart
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, (*engine.Controller).Restart)
}

// SaveSession handles POST /v1/sessions/{id}/save
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	player := GetPlayer(r.Context())
	record, saved, err := h.games.Save(r.Context(), chi.URLParam(r, "id"), player.ID)
	if err != nil {
		h.fail(w, r, "failed to save session", err)
		return
	}

	resp := models.SaveSessionResponse{Saved: saved}
	if saved {
		resp.Record = &record
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// CloseSession handles DELETE /v1/sessions/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	player := GetPlayer(r.Context())
	if err := h.games.CloseSession(chi.URLParam(r, "id"), player.ID); err != nil {
		h.fail(w, r, "failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Leaderboard handles GET /v1/leaderboard
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.games.Leaderboard(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "failed to get leaderboard", err)
		return
	}
	h.respondJSON(w, http.StatusOK, records)
}

// PlayerMatches handles GET /v1/players/{id}/matches
func (h *Handler) PlayerMatches(w http.ResponseWriter, r *http.Request) {
	records, err := h.games.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "failed to get matches", err)
		return
	}
	h.respondJSON(w, http.StatusOK, records)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, apply func(*engine.Controller) bool) {
	ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	applied := apply(ctrl)
	h.respondJSON(w, http.StatusOK, ActionResponse{Applied: applied, Session: ctrl.Snapshot()})
}

// session resolves the {id} session for the calling player, writing the error response itself.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*engine.Controller, bool) {
	player := GetPlayer(r.Context())
	ctrl, err := h.games.Get(chi.URLParam(r, "id"), player.ID)
	if err != nil {
		h.fail(w, r, "session unavailable", err)
		return nil, false
	}
	return ctrl, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, logger.Err(err), logger.F("request_id", GetRequestID(r.Context())))
	}
	h.respondError(w, status, msg, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPlayerRequired),
		errors.Is(err, service.ErrInvalidLevel),
		errors.Is(err, service.ErrInvalidWeapon):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptional decodes a JSON body, accepting an empty one.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *Handler) respondError(w http.ResponseWriter, status int, errorMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   errorMsg,
		Message: message,
	})
}
