package handler

import (
	"net/http"

	"coursehub/internal/auth"
	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/session"
	"coursehub/internal/view"
)

// AuthHandler serves login, signup and logout.
type AuthHandler struct {
	auth     *auth.Service
	sessions *session.Manager
	view     view.Renderer
}

func NewAuthHandler(authService *auth.Service, sessions *session.Manager, v view.Renderer) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		sessions: sessions,
		view:     v,
	}
}

// landing is where a freshly logged-in user is sent.
func landing(role entity.Role) string {
	switch role {
	case entity.RoleStudent:
		return "/student"
	case entity.RoleTeacher:
		return "/teacher"
	default:
		return "/"
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	if err := h.sessions.Destroy(w, r); err != nil {
		logger.LogError("destroy session", err, "user_id", d.UserID)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	logger.LogInfo("user logged out", "user_id", d.UserID)
	redirect(w, r, "/")
}
