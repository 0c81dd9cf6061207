package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"coursehub/internal/entity"
)

func courseValues(code string) url.Values {
	return url.Values{
		"code":        {code},
		"name":        {"Algorithms"},
		"section":     {"A"},
		"start_at":    {"2030-01-10T09:00"},
		"end_at":      {"2030-05-10T09:00"},
		"description": {"Sorting and searching"},
	}
}

func TestAdminCourseCRUD(t *testing.T) {
	e := newTestEnv(t, "hadmincrud", 0)
	e.user("root", entity.RoleAdmin)
	ac := e.login("root")
	ctx := context.Background()

	rec := e.do(http.MethodPost, "/admin/courses/new", url.Values{"code": {"X"}}, ac)
	if rec.Code != http.StatusUnprocessableEntity || e.view.page().name != "admin_course_form" {
		t.Fatalf("empty form: status %d page %s", rec.Code, e.view.page().name)
	}
	if all, _ := e.courses.List(ctx); len(all) != 0 {
		t.Fatalf("invalid course stored: %+v", all)
	}

	expectRedirect(t, e.do(http.MethodPost, "/admin/courses/new", courseValues("CS200"), ac), "/admin/courses?message=created")

	rec = e.do(http.MethodPost, "/admin/courses/new", courseValues("CS200"), ac)
	if rec.Code != http.StatusUnprocessableEntity || e.view.page().data["Error"] != "A course with that code already exists." {
		t.Fatalf("duplicate: status %d error %v", rec.Code, e.view.page().data["Error"])
	}

	all, _ := e.courses.List(ctx)
	if len(all) != 1 {
		t.Fatalf("courses = %+v", all)
	}
	c := all[0]
	want := time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC)
	if !c.StartAt.Equal(want) {
		t.Fatalf("start = %v", c.StartAt)
	}

	edit := courseValues("CS201")
	expectRedirect(t, e.do(http.MethodPost, withID("/admin/courses/{id}/edit", c.ID), edit, ac), "/admin/courses?message=updated")
	got, _ := e.courses.GetByID(ctx, c.ID)
	if got.Code != "CS201" {
		t.Fatalf("code not updated: %+v", got)
	}

	if rec := e.do(http.MethodGet, "/admin/courses/999/edit", nil, ac); rec.Code != http.StatusNotFound {
		t.Fatalf("edit missing: status %d", rec.Code)
	}

	expectRedirect(t, e.do(http.MethodPost, withID("/admin/courses/{id}/delete", c.ID), nil, ac), "/admin/courses?message=deleted")
	expectRedirect(t, e.do(http.MethodPost, withID("/admin/courses/{id}/delete", c.ID), nil, ac), "/admin/courses?error=not_found")
}

func TestAdminUserLists(t *testing.T) {
	e := newTestEnv(t, "hadminusers", 0)
	e.user("root", entity.RoleAdmin)
	e.user("s1", entity.RoleStudent)
	e.user("s2", entity.RoleStudent)
	e.user("t1", entity.RoleTeacher)
	ac := e.login("root")

	e.do(http.MethodGet, "/admin/students", nil, ac)
	if users := e.view.page().data["Users"].([]entity.User); len(users) != 2 {
		t.Fatalf("students = %+v", users)
	}

	e.do(http.MethodGet, "/admin/students?q=ID-s2", nil, ac)
	if users := e.view.page().data["Users"].([]entity.User); len(users) != 1 || users[0].Username != "s2" {
		t.Fatalf("search = %+v", users)
	}

	e.do(http.MethodGet, "/admin/teachers", nil, ac)
	if users := e.view.page().data["Users"].([]entity.User); len(users) != 1 || users[0].Username != "t1" {
		t.Fatalf("teachers = %+v", users)
	}
}
