// Package session resolves anonymous owner identity from a long-lived cookie.
//
// There are no accounts and no login. The first request from a browser gets a
// random token in an HTTP-only cookie, and possession of that token is the
// whole identity model: whoever presents it owns the journals written under it.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyOwnerID contextKey = "owner_id"

// Manager issues and resolves owner tokens.
type Manager struct {
	cookieName string
	secure     bool
	duration   time.Duration
}

// NewManager creates a session manager.
func NewManager(cookieName string, secure bool, duration time.Duration) *Manager {
	return &Manager{
		cookieName: cookieName,
		secure:     secure,
		duration:   duration,
	}
}

// Resolve is middleware that attaches the owner ID to the request context,
// minting a new token when the cookie is missing or unreadable. A malformed
// cookie is treated the same as no cookie: the caller becomes a fresh owner.
func (m *Manager) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := ""

		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				ownerID = cookie.Value
			}
		}

		if ownerID == "" {
			ownerID = uuid.NewString()
			m.setCookie(w, ownerID)
		}

		ctx := context.WithValue(r.Context(), contextKeyOwnerID, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.duration.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// OwnerID extracts the owner ID from request context.
// Returns empty string if the session middleware did not run.
func OwnerID(ctx context.Context) string {
	if ownerID, ok := ctx.Value(contextKeyOwnerID).(string); ok {
		return ownerID
	}
	return ""
}

// WithOwnerID returns a context carrying the given owner ID. Used by tests
// and internal callers that bypass the HTTP middleware.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, contextKeyOwnerID, ownerID)
}
