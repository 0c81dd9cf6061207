package handler

import (
	"net/http"
	"strconv"

	"coursehub/internal/logger"
	"coursehub/internal/session"
	"coursehub/internal/view"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const genericError = "Something went wrong. Please try again."

// Notices carried across redirects as ?error=<key> and ?message=<key>.
var errorNotices = map[string]string{
	"not_found":          "That course no longer exists.",
	"already_started":    "This course has already started.",
	"already_registered": "You are already registered for this course.",
	"already_assigned":   "This course already has a teacher.",
	"not_assigned":       "This course is not assigned to you.",
	"server":             genericError,
}

var messageNotices = map[string]string{
	"registered":        "Account created. Please log in.",
	"course_registered": "You are registered for the course.",
	"unregistered":      "Registration removed.",
	"assigned":          "The course is now yours.",
	"unassigned":        "The course was released.",
	"created":           "Course created.",
	"updated":           "Course updated.",
	"deleted":           "Course deleted.",
	"sent":              "Message sent.",
}

// pageData returns the fields every template expects.
func pageData(r *http.Request, title string) map[string]interface{} {
	q := r.URL.Query()
	data := map[string]interface{}{
		"Title":   title,
		"Error":   errorNotices[q.Get("error")],
		"Message": messageNotices[q.Get("message")],
	}
	if d, ok := session.FromContext(r.Context()); ok {
		data["User"] = d
	}
	return data
}

// currentUser returns the session data placed in the context by the gate.
func currentUser(r *http.Request) session.Data {
	d, _ := session.FromContext(r.Context())
	return d
}

func courseID(r *http.Request) (int64, bool) {
	return pathID(r, "courseID")
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func serverError(w http.ResponseWriter, r *http.Request, v view.Renderer, err error) {
	logger.LogError("request failed", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)
	data := pageData(r, "Server error")
	data["Detail"] = genericError
	v.Render(w, http.StatusInternalServerError, "error", data)
}

func notFound(w http.ResponseWriter, r *http.Request, v view.Renderer) {
	data := pageData(r, "Not found")
	data["Detail"] = "404: Page not found"
	v.Render(w, http.StatusNotFound, "error", data)
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, "403: Access denied", http.StatusForbidden)
}
