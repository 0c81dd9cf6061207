package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/enrollment"
	"coursehub/internal/entity"
	"coursehub/internal/messaging"
	"coursehub/internal/repository"
	"coursehub/internal/session"
	"coursehub/internal/testutil"
)

type rendered struct {
	status int
	name   string
	data   map[string]interface{}
}

// fakeRenderer records the last page instead of executing templates.
type fakeRenderer struct {
	mu   sync.Mutex
	last rendered
}

func (f *fakeRenderer) Render(w http.ResponseWriter, status int, name string, data map[string]interface{}) {
	f.mu.Lock()
	f.last = rendered{status: status, name: name, data: data}
	f.mu.Unlock()
	w.WriteHeader(status)
}

func (f *fakeRenderer) page() rendered {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type testEnv struct {
	t             *testing.T
	handler       http.Handler
	view          *fakeRenderer
	users         *repository.UserRepository
	courses       *repository.CourseRepository
	registrations *repository.RegistrationRepository
	catalog       *enrollment.Catalog
	messages      *messaging.Service
}

func newTestEnv(t *testing.T, name string, loginLimit int) *testEnv {
	t.Helper()
	d := testutil.OpenDB(t, name)

	users := repository.NewUserRepository(d)
	courses := repository.NewCourseRepository(d)
	registrations := repository.NewRegistrationRepository(d)
	msgs := repository.NewMessageRepository(d)

	sessions := session.NewCookieManager(config.SessionConfig{
		Name:    "test-session",
		AuthKey: "0123456789abcdef0123456789abcdef",
		MaxAge:  3600,
	})
	policy := auth.NewSecretCodePolicy(config.SignupConfig{TeacherCode: "TEACH2025", AdminCode: "ADMIN2025"})

	e := &testEnv{
		t:             t,
		view:          &fakeRenderer{},
		users:         users,
		courses:       courses,
		registrations: registrations,
		catalog:       enrollment.NewCatalog(courses),
		messages:      messaging.NewService(msgs, users),
	}
	e.handler = NewRouter(Deps{
		DB:             d,
		Sessions:       sessions,
		Auth:           auth.NewService(users, auth.PlainCredentials{}, policy),
		Engine:         enrollment.NewEngine(courses, registrations, users),
		Catalog:        e.catalog,
		Users:          users,
		Messages:       e.messages,
		View:           e.view,
		LoginRateLimit: loginLimit,
	})
	return e
}

func (e *testEnv) do(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) user(username string, role entity.Role) *entity.User {
	e.t.Helper()
	u, err := e.users.Create(context.Background(), &entity.User{
		SchoolID: "ID-" + username,
		Name:     "Name " + username,
		Username: username,
		Password: "pw",
		Role:     role,
	})
	if err != nil {
		e.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) login(username string) []*http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {"pw"}}, nil)
	if rec.Code != http.StatusSeeOther {
		e.t.Fatalf("login %s: status %d", username, rec.Code)
	}
	return rec.Result().Cookies()
}

func (e *testEnv) course(code string, start time.Time) *entity.Course {
	e.t.Helper()
	c, err := e.catalog.Create(context.Background(), enrollment.CourseInput{
		Code:        code,
		Name:        "Course " + code,
		Section:     "01",
		StartAt:     start,
		EndAt:       start.Add(30 * 24 * time.Hour),
		Description: "desc",
	})
	if err != nil {
		e.t.Fatalf("create course %s: %v", code, err)
	}
	return c
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func withID(format string, id int64) string {
	return strings.Replace(format, "{id}", strconv.FormatInt(id, 10), 1)
}
