package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coursehub/internal/entity"
)

func TestTeacherAssignment(t *testing.T) {
	e := newTestEnv(t, "hteacherassign", 0)
	t1 := e.user("t1", entity.RoleTeacher)
	e.user("t2", entity.RoleTeacher)
	c := e.course("C1", time.Now().Add(time.Hour))
	c1 := e.login("t1")
	c2 := e.login("t2")

	expectRedirect(t, e.do(http.MethodPost, withID("/teacher/classes/{id}/register", c.ID), nil, c1), "/teacher/classes?message=assigned")
	expectRedirect(t, e.do(http.MethodPost, withID("/teacher/classes/{id}/register", c.ID), nil, c2), "/teacher/classes?error=already_assigned")
	expectRedirect(t, e.do(http.MethodPost, withID("/teacher/classes/{id}/remove", c.ID), nil, c2), "/teacher/classes?error=not_assigned")

	got, _ := e.courses.GetByID(context.Background(), c.ID)
	if !got.OwnedBy(t1.ID) {
		t.Fatalf("teacher reference changed: %+v", got)
	}

	e.do(http.MethodGet, "/teacher/classes", nil, c1)
	page := e.view.page()
	if assigned := page.data["Assigned"].([]entity.Course); len(assigned) != 1 || assigned[0].ID != c.ID {
		t.Fatalf("assigned = %+v", assigned)
	}

	expectRedirect(t, e.do(http.MethodPost, withID("/teacher/classes/{id}/remove", c.ID), nil, c1), "/teacher/classes?message=unassigned")
	got, _ = e.courses.GetByID(context.Background(), c.ID)
	if got.Assigned() {
		t.Fatalf("course still assigned: %+v", got)
	}
}

func TestTeacherRoster(t *testing.T) {
	e := newTestEnv(t, "hteacherroster", 0)
	e.user("t1", entity.RoleTeacher)
	e.user("t2", entity.RoleTeacher)
	e.user("s1", entity.RoleStudent)
	c := e.course("C1", time.Now().Add(time.Hour))
	c1 := e.login("t1")

	e.do(http.MethodPost, withID("/teacher/classes/{id}/register", c.ID), nil, c1)
	e.do(http.MethodPost, withID("/student/courses/{id}/register", c.ID), nil, e.login("s1"))

	rec := e.do(http.MethodGet, withID("/teacher/info/{id}/students", c.ID), nil, c1)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if students := e.view.page().data["Students"].([]entity.User); len(students) != 1 || students[0].Username != "s1" {
		t.Fatalf("students = %+v", students)
	}

	if rec := e.do(http.MethodGet, withID("/teacher/info/{id}/students", c.ID), nil, e.login("t2")); rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner: status %d", rec.Code)
	}
	if rec := e.do(http.MethodGet, "/teacher/info/999/students", nil, c1); rec.Code != http.StatusNotFound {
		t.Fatalf("missing course: status %d", rec.Code)
	}
}
