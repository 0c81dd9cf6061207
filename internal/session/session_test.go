package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coursehub/internal/config"
	"coursehub/internal/entity"
)

func newTestManager() *Manager {
	return NewCookieManager(config.SessionConfig{
		Name:    "test-session",
		AuthKey: "0123456789abcdef0123456789abcdef",
		MaxAge:  3600,
	})
}

// carry copies the cookies set on rec onto a fresh request.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStartAndLoad(t *testing.T) {
	m := newTestManager()
	u := &entity.User{ID: 5, Username: "alice", Name: "Alice", Role: entity.RoleTeacher}

	rec := httptest.NewRecorder()
	if err := m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), u); err != nil {
		t.Fatalf("start: %v", err)
	}

	d := m.Load(carry(rec))
	want := Data{UserID: 5, Username: "alice", Name: "Alice", Role: entity.RoleTeacher}
	if d != want {
		t.Fatalf("loaded %+v, want %+v", d, want)
	}
	if !d.LoggedIn() {
		t.Fatalf("expected logged in")
	}
}

func TestLoad_NoCookie(t *testing.T) {
	d := newTestManager().Load(httptest.NewRequest(http.MethodGet, "/", nil))
	if d.LoggedIn() || d.UserID != 0 {
		t.Fatalf("expected anonymous data, got %+v", d)
	}
}

func TestLoad_TamperedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "forged"})

	if d := newTestManager().Load(req); d.LoggedIn() {
		t.Fatalf("forged cookie accepted: %+v", d)
	}
}

func TestSetName(t *testing.T) {
	m := newTestManager()
	rec := httptest.NewRecorder()
	_ = m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), &entity.User{ID: 1, Username: "bob", Name: "Bob", Role: entity.RoleStudent})

	rec2 := httptest.NewRecorder()
	if err := m.SetName(rec2, carry(rec), "Robert"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	d := m.Load(carry(rec2))
	if d.Name != "Robert" || d.Username != "bob" || d.Role != entity.RoleStudent {
		t.Fatalf("unexpected data after rename: %+v", d)
	}

	if err := m.SetName(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "x"); err == nil {
		t.Fatalf("expected error renaming without a session")
	}
}

func TestDestroy(t *testing.T) {
	m := newTestManager()
	rec := httptest.NewRecorder()
	_ = m.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), &entity.User{ID: 1, Username: "bob", Role: entity.RoleStudent})

	rec2 := httptest.NewRecorder()
	if err := m.Destroy(rec2, carry(rec)); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	var expired bool
	for _, c := range rec2.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Fatalf("session cookie not expired: %v", rec2.Result().Cookies())
	}
}
