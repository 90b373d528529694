package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"whisperchase/internal/models"
	"whisperchase/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService) *Middleware {
	return &Middleware{authService: authService}
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization token", "", nil)
			return
		}

		player, err := m.authService.VerifyToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, player)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches the player to the context when a valid token is
// present but lets the request through either way.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if player, err := m.authService.VerifyToken(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), PlayerContextKey, player))
			}
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetPlayerFromContext retrieves the player from the request context
func GetPlayerFromContext(ctx context.Context) *models.Player {
	player, ok := ctx.Value(PlayerContextKey).(*models.Player)
	if !ok {
		return nil
	}
	return player
}
