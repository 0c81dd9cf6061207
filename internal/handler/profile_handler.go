package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/auth"
	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/session"
	"coursehub/internal/validate"
	"coursehub/internal/view"
)

type ProfileHandler struct {
	auth     *auth.Service
	sessions *session.Manager
	view     view.Renderer
}

func NewProfileHandler(authService *auth.Service, sessions *session.Manager, v view.Renderer) *ProfileHandler {
	return &ProfileHandler{auth: authService, sessions: sessions, view: v}
}

func (h *ProfileHandler) Page(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	u, err := h.auth.Profile(r.Context(), d.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		redirect(w, r, "/logout")
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}
	h.render(w, r, http.StatusOK, u, "", "")
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	d := currentUser(r)

	u, err := h.auth.UpdateProfile(r.Context(), d.UserID, auth.ProfileInput{
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
		Address:  r.FormValue("address"),
		Phone:    r.FormValue("phone"),
	})

	var verr *validate.Error
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrUserNotFound):
		redirect(w, r, "/logout")
		return
	case errors.As(err, &verr):
		current, ferr := h.auth.Profile(r.Context(), d.UserID)
		if ferr != nil {
			serverError(w, r, h.view, ferr)
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, current, verr.Error(), "")
		return
	default:
		serverError(w, r, h.view, err)
		return
	}

	if err := h.sessions.SetName(w, r, u.Name); err != nil {
		logger.LogWarn("resync session name", "user_id", d.UserID, "error", err)
	}
	d.Name = u.Name
	r = r.WithContext(session.WithData(r.Context(), d))
	h.render(w, r, http.StatusOK, u, "", "Profile saved.")
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, status int, u *entity.User, errMsg, msg string) {
	data := pageData(r, "Profile")
	if errMsg != "" {
		data["Error"] = errMsg
	}
	if msg != "" {
		data["Message"] = msg
	}
	data["Profile"] = u
	h.view.Render(w, status, "profile", data)
}
