package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
)

// SessionAuthenticator validates presented bearer tokens.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, string, error)
}

// Authenticate validates the Authorization header and injects the
// account id and session jti into request context.
type Authenticate struct {
	sessions       SessionAuthenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(sessions SessionAuthenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle is the middleware function for chi.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, m.logger, model.ErrUnauthenticated)
			return
		}

		accountID, jti, err := m.sessions.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, m.logger, model.ErrUnauthenticated)
			return
		}

		ctx := m.contextManager.SetAccountIDToContext(r.Context(), accountID)
		ctx = m.contextManager.SetSessionJTIToContext(ctx, jti)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Logging logs each request with method, path, status and duration.
type Logging struct {
	logger *logger.Logger
}

func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Handle is the middleware function for chi.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		l.logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
