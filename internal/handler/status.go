package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/session"
)

// DBPinger reports database reachability. *sql.DB satisfies it.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// StatusHandler reports backend connectivity.
type StatusHandler struct {
	db       DBPinger
	sessions *session.Store
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(db DBPinger, sessions *session.Store) *StatusHandler {
	return &StatusHandler{db: db, sessions: sessions}
}

// HandleStatus handles GET /status requests. It pings the database and
// the session store and reports both, so a degraded backend is visible
// without tailing logs.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if err := h.db.PingContext(r.Context()); err != nil {
		database = "disconnected"
	}

	sessionState := "active"
	if err := h.sessions.Ping(r.Context()); err != nil {
		sessionState = "unavailable"
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{
		Message:   "server status",
		Database:  database,
		Session:   sessionState,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
