package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Identity headers set by the front-end.
const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
	HeaderRequestID  = "X-Request-ID"
)

// RequestIDKey is the context key for request ID
type RequestIDKey struct{}

// PlayerKey is the context key for the calling player
type PlayerKey struct{}

// RequestIDMiddleware adds a unique request ID to each request and echoes it back
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey{}, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PlayerMiddleware reads the player identity headers into the context.
// Requests without a player id pass through; handlers that need one reject them.
func PlayerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := models.Player{
			ID:          strings.TrimSpace(r.Header.Get(HeaderPlayerID)),
			DisplayName: strings.TrimSpace(r.Header.Get(HeaderPlayerName)),
		}
		ctx := context.WithValue(r.Context(), PlayerKey{}, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs one line per request. Server errors log at ERROR
// and client errors at WARN.
func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Log(levelForStatus(ww.Status()), "HTTP request",
				logger.F("method", r.Method),
				logger.F("path", r.URL.Path),
				logger.F("status", strconv.Itoa(ww.Status())),
				logger.F("bytes", strconv.Itoa(ww.BytesWritten())),
				logger.F("duration_ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10)),
				logger.F("request_id", GetRequestID(r.Context())),
				logger.F("player_id", GetPlayer(r.Context()).ID),
			)
		})
	}
}

func levelForStatus(status int) logger.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.LevelError
	case status >= http.StatusBadRequest:
		return logger.LevelWarn
	default:
		return logger.LevelInfo
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetPlayer retrieves the calling player from context
func GetPlayer(ctx context.Context) models.Player {
	if player, ok := ctx.Value(PlayerKey{}).(models.Player); ok {
		return player
	}
	return models.Player{}
}
