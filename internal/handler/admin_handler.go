package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursehub/internal/enrollment"
	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/validate"
	"coursehub/internal/view"
)

type UserLister interface {
	ListByRole(ctx context.Context, role entity.Role, schoolID string) ([]entity.User, error)
}

type AdminHandler struct {
	catalog *enrollment.Catalog
	users   UserLister
	view    view.Renderer
}

func NewAdminHandler(catalog *enrollment.Catalog, users UserLister, v view.Renderer) *AdminHandler {
	return &AdminHandler{catalog: catalog, users: users, view: v}
}

func (h *AdminHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalog.List(r.Context())
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, "Courses")
	data["Courses"] = courses
	h.view.Render(w, http.StatusOK, "admin_courses", data)
}

func (h *AdminHandler) NewCourse(w http.ResponseWriter, r *http.Request) {
	h.renderCourseForm(w, r, http.StatusOK, "New course", "/admin/courses/new", enrollment.CourseInput{}, "")
}

func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := courseForm(r)

	course, err := h.catalog.Create(r.Context(), in)
	if msg, ok := courseFormError(err); ok {
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, "New course", "/admin/courses/new", in, msg)
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	logger.LogInfo("course created", "course_id", course.ID, "code", course.Code)
	redirect(w, r, "/admin/courses?message=created")
}

func (h *AdminHandler) EditCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}

	course, err := h.catalog.Get(r.Context(), id)
	if errors.Is(err, enrollment.ErrNotFound) {
		notFound(w, r, h.view)
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}
	h.renderCourseForm(w, r, http.StatusOK, "Edit "+course.Code, editAction(id), enrollment.InputFrom(*course), "")
}

func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := courseForm(r)

	_, err := h.catalog.Update(r.Context(), id, in)
	if errors.Is(err, enrollment.ErrNotFound) {
		notFound(w, r, h.view)
		return
	}
	if msg, ok := courseFormError(err); ok {
		h.renderCourseForm(w, r, http.StatusUnprocessableEntity, "Edit course", editAction(id), in, msg)
		return
	}
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	logger.LogInfo("course updated", "course_id", id)
	redirect(w, r, "/admin/courses?message=updated")
}

// DeleteCourse removes the course. Registrations pointing at it are
// cleaned up when the affected students next list their courses.
func (h *AdminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(r)
	if !ok {
		notFound(w, r, h.view)
		return
	}

	err := h.catalog.Delete(r.Context(), id)
	switch {
	case err == nil:
		logger.LogInfo("course deleted", "course_id", id)
		redirect(w, r, "/admin/courses?message=deleted")
	case errors.Is(err, enrollment.ErrNotFound):
		redirect(w, r, "/admin/courses?error=not_found")
	default:
		logger.LogError("delete course", err, "course_id", id)
		redirect(w, r, "/admin/courses?error=server")
	}
}

func (h *AdminHandler) Students(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, entity.RoleStudent, "Students", "/admin/students")
}

func (h *AdminHandler) Teachers(w http.ResponseWriter, r *http.Request) {
	h.listUsers(w, r, entity.RoleTeacher, "Teachers", "/admin/teachers")
}

// listUsers lists users of a role, narrowed to an exact school ID when ?q
// is set.
func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request, role entity.Role, title, action string) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	users, err := h.users.ListByRole(r.Context(), role, q)
	if err != nil {
		serverError(w, r, h.view, err)
		return
	}

	data := pageData(r, title)
	data["Users"] = users
	data["Query"] = q
	data["Action"] = action
	h.view.Render(w, http.StatusOK, "admin_users", data)
}

func (h *AdminHandler) renderCourseForm(w http.ResponseWriter, r *http.Request, status int, title, action string, in enrollment.CourseInput, msg string) {
	data := pageData(r, title)
	if msg != "" {
		data["Error"] = msg
	}
	data["Action"] = action
	data["Form"] = in
	h.view.Render(w, status, "admin_course_form", data)
}

func courseFormError(err error) (string, bool) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		return verr.Error(), true
	case errors.Is(err, enrollment.ErrCodeTaken):
		return "A course with that code already exists.", true
	default:
		return "", false
	}
}

func editAction(id int64) string {
	return "/admin/courses/" + strconv.FormatInt(id, 10) + "/edit"
}

var formTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"}

// formTime parses a datetime-local or date input as UTC. Unparseable input
// yields the zero time, which validation reports as missing.
func formTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range formTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func courseForm(r *http.Request) enrollment.CourseInput {
	return enrollment.CourseInput{
		Code:        r.FormValue("code"),
		Name:        r.FormValue("name"),
		Section:     r.FormValue("section"),
		StartAt:     formTime(r.FormValue("start_at")),
		EndAt:       formTime(r.FormValue("end_at")),
		Description: r.FormValue("description"),
	}
}
