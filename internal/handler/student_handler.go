package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/enrollment"
	"coursehub/internal/logger"
	"coursehub/internal/view"
)

type StudentHandler struct {
	engine *enrollment.Engine
	view   view.Renderer
}

func NewStudentHandler(engine *enrollment.Engine, v view.Renderer) *StudentHandler {
	return &StudentHandler{engine: engine, view: v}
}

func (h *StudentHandler) Courses(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	courses, err := h.engine.AvailableCourses(r.Context(), d.UserID)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "Available courses")
	data["Courses"] = courses
	h.view.Render(w, http.StatusOK, "student_courses", data)
}

func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	_, err := h.engine.Register(r.Context(), d.UserID, id)
	switch {
	case err == nil:
		logger.LogInfo("student registered", "student_id", d.UserID, "course_id", id)
		redirect(w, r, "/student/courses?message=course_registered")
	case errors.Is(err, enrollment.ErrNotFound):
		redirect(w, r, "/student/courses?error=not_found")
	case errors.Is(err, enrollment.ErrAlreadyStarted):
		redirect(w, r, "/student/courses?error=already_started")
	case errors.Is(err, enrollment.ErrAlreadyRegistered):
		redirect(w, r, "/student/courses?error=already_registered")
	default:
		logger.LogError("register student", err, "student_id", d.UserID, "course_id", id)
		redirect(w, r, "/student/courses?error=server")
	}
}

// Registrations lists the student's courses. Loading the page also removes
// registrations for courses that have been deleted.
func (h *StudentHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	regs, err := h.engine.StudentCourses(r.Context(), d.UserID)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "My registrations")
	data["Registrations"] = regs
	h.view.Render(w, http.StatusOK, "student_registrations", data)
}

func (h *StudentHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	if err := h.engine.Unregister(r.Context(), d.UserID, id); err != nil {
		logger.LogError("unregister student", err, "student_id", d.UserID, "course_id", id)
		redirect(w, r, "/student/registrations?error=server")
		return
	}
	redirect(w, r, "/student/registrations?message=unregistered")
}
