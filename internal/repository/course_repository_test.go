package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursehub/internal/entity"
	"coursehub/internal/testutil"
)

func newCourse(code string, start time.Time) *entity.Course {
	return &entity.Course{
		Code:        code,
		Name:        "Course " + code,
		Section:     "A",
		StartAt:     start,
		EndAt:       start.Add(90 * 24 * time.Hour),
		Description: "About " + code,
	}
}

func TestCourseRepository_CRUD(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenDB(t, "courserepo"))
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour).Truncate(time.Second)

	c, err := repo.Create(ctx, newCourse("CS101", start))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	g, err := repo.GetByID(ctx, c.ID)
	if err != nil || g == nil || g.Code != "CS101" || g.Assigned() {
		t.Fatalf("get: %v %+v", err, g)
	}
	if !g.StartAt.Equal(start) {
		t.Fatalf("start_at round trip: got %v want %v", g.StartAt, start)
	}

	_, err = repo.Create(ctx, newCourse("CS101", start))
	var dup *DuplicateError
	if !errors.As(err, &dup) || dup.Field != FieldCode {
		t.Fatalf("expected code duplicate, got %v", err)
	}

	g.Name = "Intro to CS"
	if err := repo.Update(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	g2, _ := repo.GetByID(ctx, c.ID)
	if g2.Name != "Intro to CS" {
		t.Fatalf("update not applied: %+v", g2)
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	gone, err := repo.GetByID(ctx, c.ID)
	if err != nil || gone != nil {
		t.Fatalf("expected course deleted, got %+v err=%v", gone, err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCourseRepository_ListStartingAfter(t *testing.T) {
	repo := NewCourseRepository(testutil.OpenDB(t, "coursefuture"))
	ctx := context.Background()
	now := time.Now()

	for _, c := range []*entity.Course{
		newCourse("B200", now.Add(24*time.Hour)),
		newCourse("A100", now.Add(72*time.Hour)),
		newCourse("Z900", now.Add(-24*time.Hour)),
	} {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("create %s: %v", c.Code, err)
		}
	}

	future, err := repo.ListStartingAfter(ctx, now)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(future) != 2 || future[0].Code != "A100" || future[1].Code != "B200" {
		t.Fatalf("unexpected future courses: %+v", future)
	}
}

func TestCourseRepository_TeacherAssignment(t *testing.T) {
	d := testutil.OpenDB(t, "courseassign")
	users := NewUserRepository(d)
	repo := NewCourseRepository(d)
	ctx := context.Background()

	t1, _ := users.Create(ctx, newUser("T-1", "t1", entity.RoleTeacher))
	t2, _ := users.Create(ctx, newUser("T-2", "t2", entity.RoleTeacher))
	c, err := repo.Create(ctx, newCourse("MATH1", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.AssignTeacher(ctx, c.ID, t1.ID)
	if err != nil || !ok {
		t.Fatalf("assign t1: ok=%v err=%v", ok, err)
	}
	ok, err = repo.AssignTeacher(ctx, c.ID, t2.ID)
	if err != nil || ok {
		t.Fatalf("assign over existing teacher must not change rows: ok=%v err=%v", ok, err)
	}

	mine, _ := repo.ListByTeacher(ctx, t1.ID)
	free, _ := repo.ListUnassigned(ctx)
	if len(mine) != 1 || len(free) != 0 {
		t.Fatalf("mine=%+v free=%+v", mine, free)
	}

	ok, err = repo.UnassignTeacher(ctx, c.ID, t2.ID)
	if err != nil || ok {
		t.Fatalf("unassign by non-owner: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UnassignTeacher(ctx, c.ID, t1.ID)
	if err != nil || !ok {
		t.Fatalf("unassign by owner: ok=%v err=%v", ok, err)
	}

	g, _ := repo.GetByID(ctx, c.ID)
	if g.Assigned() {
		t.Fatalf("expected unassigned course: %+v", g)
	}
}
