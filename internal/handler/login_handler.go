package handler

import (
	"errors"
	"net/http"
	"strings"

	"coursehub/internal/auth"
	"coursehub/internal/logger"
)

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).LoggedIn() {
		redirect(w, r, "/")
		return
	}

	data := pageData(r, "Log in")
	data["Form"] = map[string]string{"username": ""}
	h.view.Render(w, http.StatusOK, "login", data)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logger.LogInfo("login failed", "username", username)
		data := pageData(r, "Log in")
		data["Error"] = "Invalid credentials. Try again."
		data["Form"] = map[string]string{"username": username}
		h.view.Render(w, http.StatusUnauthorized, "login", data)
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	if err := h.sessions.Start(w, r, user); err != nil {
		serverError(w, r, h.view, err)
		return
	}

	logger.LogInfo("user logged in", "user_id", user.ID, "role", user.Role)
	redirect(w, r, landing(user.Role))
}
