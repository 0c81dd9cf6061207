package handler

import (
	"net/http"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/enrollment"
	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/messaging"
	"coursehub/internal/middleware"
	"coursehub/internal/session"
	"coursehub/internal/view"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB       Pinger
	Sessions *session.Manager
	Auth     *auth.Service
	Engine   *enrollment.Engine
	Catalog  *enrollment.Catalog
	Users    UserLister
	Messages *messaging.Service
	View     view.Renderer

	// LoginRateLimit caps login attempts per client IP per minute. Zero
	// disables the limit.
	LoginRateLimit int
}

func NewRouter(d Deps) http.Handler {
	gate := middleware.NewGate(d.Sessions)

	index := NewIndexHandler(d.DB, d.View)
	home := NewHomeHandler(d.View)
	authH := NewAuthHandler(d.Auth, d.Sessions, d.View)
	student := NewStudentHandler(d.Engine, d.View)
	teacher := NewTeacherHandler(d.Engine, d.View)
	admin := NewAdminHandler(d.Catalog, d.Users, d.View)
	profile := NewProfileHandler(d.Auth, d.Sessions, d.View)
	messages := NewMessageHandler(d.Messages, d.View)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(gate.Attach)

	r.NotFound(index.NotFound)
	r.Get("/", index.Index)
	r.Get("/healthz", index.Health)

	r.Get("/login", authH.LoginPage)
	if d.LoginRateLimit > 0 {
		r.With(httprate.LimitByIP(d.LoginRateLimit, time.Minute)).Post("/login", authH.Login)
	} else {
		r.Post("/login", authH.Login)
	}
	r.Get("/signup", authH.SignupPage)
	r.Post("/signup", authH.Signup)

	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuth)

		r.Get("/logout", authH.Logout)
		r.Get("/profile", profile.Page)
		r.Post("/profile", profile.Save)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messages.Inbox)
			r.Get("/send", messages.Compose)
			r.Post("/send", messages.Send)
			r.Get("/{messageID}", messages.Detail)
		})

		r.Route("/student", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleStudent))
			r.Get("/", home.Student)
			r.Get("/courses", student.Courses)
			r.Post("/courses/{courseID}/register", student.Register)
			r.Get("/registrations", student.Registrations)
			r.Post("/registrations/{courseID}/remove", student.Unregister)
		})

		r.Route("/teacher", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleTeacher))
			r.Get("/", home.Teacher)
			r.Get("/classes", teacher.Classes)
			r.Post("/classes/{courseID}/register", teacher.Assign)
			r.Post("/classes/{courseID}/remove", teacher.Unassign)
			r.Get("/info", teacher.Info)
			r.Get("/info/{courseID}/students", teacher.Roster)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(entity.RoleAdmin))
			r.Get("/", home.Admin)
			r.Get("/courses", admin.Courses)
			r.Get("/courses/new", admin.NewCourse)
			r.Post("/courses/new", admin.CreateCourse)
			r.Get("/courses/{courseID}/edit", admin.EditCourse)
			r.Post("/courses/{courseID}/edit", admin.UpdateCourse)
			r.Post("/courses/{courseID}/delete", admin.DeleteCourse)
			r.Get("/students", admin.Students)
			r.Get("/teachers", admin.Teachers)
		})
	})

	return r
}
