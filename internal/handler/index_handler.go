package handler

import (
	"context"
	"net/http"
	"time"

	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/view"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// IndexHandler serves the public landing page, the health check and the
// not-found fallback.
type IndexHandler struct {
	db   Pinger
	view view.Renderer
}

func NewIndexHandler(db Pinger, v view.Renderer) *IndexHandler {
	return &IndexHandler{db: db, view: v}
}

// Index renders the landing page for visitors and sends logged-in users to
// their role's home. A session with an unknown role is logged out.
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	if !d.LoggedIn() {
		h.view.Render(w, http.StatusOK, "home", pageData(r, "Welcome"))
		return
	}

	switch d.Role {
	case entity.RoleStudent:
		redirect(w, r, "/student")
	case entity.RoleTeacher:
		redirect(w, r, "/teacher")
	case entity.RoleAdmin:
		redirect(w, r, "/admin")
	default:
		logger.LogWarn("session with unknown role", "user_id", d.UserID, "role", d.Role)
		redirect(w, r, "/logout")
	}
}

func (h *IndexHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	notFound(w, r, h.view)
}

func (h *IndexHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.db.PingContext(ctx); err != nil {
		logger.LogError("health check failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}
