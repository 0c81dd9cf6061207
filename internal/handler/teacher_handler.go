package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/enrollment"
	"coursehub/internal/logger"
	"coursehub/internal/view"
)

type TeacherHandler struct {
	engine *enrollment.Engine
	view   view.Renderer
}

func NewTeacherHandler(engine *enrollment.Engine, v view.Renderer) *TeacherHandler {
	return &TeacherHandler{engine: engine, view: v}
}

// Classes shows courses without a teacher next to the teacher's own.
func (h *TeacherHandler) Classes(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	board, err := h.engine.TeacherCourses(r.Context(), d.UserID)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "Classes")
	data["Unassigned"] = board.Unassigned
	data["Assigned"] = board.Assigned
	h.view.Render(w, http.StatusOK, "teacher_classes", data)
}

func (h *TeacherHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	err := h.engine.AssignTeacher(r.Context(), d.UserID, id)
	switch {
	case err == nil:
		logger.LogInfo("teacher assigned", "teacher_id", d.UserID, "course_id", id)
		redirect(w, r, "/teacher/classes?message=assigned")
	case errors.Is(err, enrollment.ErrNotFound):
		redirect(w, r, "/teacher/classes?error=not_found")
	case errors.Is(err, enrollment.ErrAlreadyAssigned):
		redirect(w, r, "/teacher/classes?error=already_assigned")
	default:
		logger.LogError("assign teacher", err, "teacher_id", d.UserID, "course_id", id)
		redirect(w, r, "/teacher/classes?error=server")
	}
}

func (h *TeacherHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	err := h.engine.UnassignTeacher(r.Context(), d.UserID, id)
	switch {
	case err == nil:
		logger.LogInfo("teacher unassigned", "teacher_id", d.UserID, "course_id", id)
		redirect(w, r, "/teacher/classes?message=unassigned")
	case errors.Is(err, enrollment.ErrNotFound):
		redirect(w, r, "/teacher/classes?error=not_assigned")
	default:
		logger.LogError("unassign teacher", err, "teacher_id", d.UserID, "course_id", id)
		redirect(w, r, "/teacher/classes?error=server")
	}
}

func (h *TeacherHandler) Info(w http.ResponseWriter, r *http.Request) {
	d := currentUser(r)
	board, err := h.engine.TeacherCourses(r.Context(), d.UserID)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "My courses")
	data["Courses"] = board.Assigned
	h.view.Render(w, http.StatusOK, "teacher_info", data)
}

func (h *TeacherHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	d := currentUser(r)

	roster, err := h.engine.CourseRoster(r.Context(), d.UserID, id)
	switch {
	case errors.Is(err, enrollment.ErrNotFound):
		notFound(w, r, h.view)
		return
	case errors.Is(err, enrollment.ErrForbidden):
		logger.LogWarn("roster denied", "teacher_id", d.UserID, "course_id", id)
		forbidden(w)
		return
	case err != nil:
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, roster.Course.Code+" students")
	data["Course"] = roster.Course
	data["Students"] = roster.Students
	h.view.Render(w, http.StatusOK, "teacher_roster", data)
}
