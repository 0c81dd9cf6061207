package handler

import (
	"net/http"

	"coursehub/internal/view"
)

// HomeHandler renders the per-role landing pages.
type HomeHandler struct {
	view view.Renderer
}

func NewHomeHandler(v view.Renderer) *HomeHandler {
	return &HomeHandler{view: v}
}

func (h *HomeHandler) Student(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "student_home", pageData(r, "Student"))
}

func (h *HomeHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "teacher_home", pageData(r, "Teacher"))
}

func (h *HomeHandler) Admin(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, http.StatusOK, "admin_home", pageData(r, "Administration"))
}
