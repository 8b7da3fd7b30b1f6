package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/session"
)

// SessionHandler handles the cookie-based session routes. These routes
// trust the server-side session alone and never consult bearer tokens;
// the token-gated profile route is the mirror image. The two identity
// checks are deliberately not interchangeable.
type SessionHandler struct {
	sessions     *session.Store
	cookieSecure bool
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Store, cookieSecure bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookieSecure: cookieSecure}
}

// HandleCheck handles GET /session/check requests. It always answers
// 200: an absent, expired, or unreadable session reports
// authenticated=false rather than an error.
func (h *SessionHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		writeJSON(w, http.StatusOK, model.SessionCheckResponse{Authenticated: false})
		return
	}

	sess, err := h.sessions.Lookup(r.Context(), cookie.Value)
	if err != nil {
		if !isSessionAbsent(err) {
			slog.Error("session lookup failed", "error", err)
		}
		writeJSON(w, http.StatusOK, model.SessionCheckResponse{
			Authenticated: false,
			SessionID:     cookie.Value,
		})
		return
	}

	writeJSON(w, http.StatusOK, model.SessionCheckResponse{
		Authenticated: true,
		UserID:        sess.UserID,
		SessionID:     cookie.Value,
	})
}

// HandleLogout handles POST /session/logout requests. Logout is
// server-side: the session is destroyed and the cookie cleared. The
// bearer token cannot be revoked and stays valid until it expires;
// clients are expected to discard it.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			slog.Error("session destroy failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("logout failed"))
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"msg": "logout successful"})
}

func isSessionAbsent(err error) bool {
	return errors.Is(err, session.ErrNotFound)
}
