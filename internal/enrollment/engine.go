package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/repository"
)

type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*entity.Course, error)
	ListStartingAfter(ctx context.Context, t time.Time) ([]entity.Course, error)
	ListUnassigned(ctx context.Context) ([]entity.Course, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]entity.Course, error)
	AssignTeacher(ctx context.Context, courseID, teacherID int64) (bool, error)
	UnassignTeacher(ctx context.Context, courseID, teacherID int64) (bool, error)
}

type RegistrationStore interface {
	Create(ctx context.Context, reg entity.Registration) (*entity.Registration, error)
	ListByStudent(ctx context.Context, studentID int64) ([]entity.Registration, error)
	ListByCourse(ctx context.Context, courseID int64) ([]entity.Registration, error)
	Delete(ctx context.Context, studentID, courseID int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// Engine owns the course-teacher and student-course state machine.
type Engine struct {
	courses       CourseStore
	registrations RegistrationStore
	users         UserStore
	now           func() time.Time
}

func NewEngine(courses CourseStore, registrations RegistrationStore, users UserStore) *Engine {
	return &Engine{
		courses:       courses,
		registrations: registrations,
		users:         users,
		now:           time.Now,
	}
}

// WithClock replaces the engine's time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// RegisteredCourse pairs a live registration with its course.
type RegisteredCourse struct {
	Registration entity.Registration
	Course       entity.Course
}

// TeacherView is the teacher's class board.
type TeacherView struct {
	Unassigned []entity.Course
	Assigned   []entity.Course
}

// Roster is a course with its resolved students.
type Roster struct {
	Course   entity.Course
	Students []entity.User
}

// AvailableCourses lists courses that have not started yet and that the
// student is not registered for, ordered by course code.
func (e *Engine) AvailableCourses(ctx context.Context, studentID int64) ([]entity.Course, error) {
	upcoming, err := e.courses.ListStartingAfter(ctx, e.now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming courses: %w", err)
	}
	regs, err := e.registrations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	taken := make(map[int64]bool, len(regs))
	for _, reg := range regs {
		taken[reg.CourseID] = true
	}

	available := make([]entity.Course, 0, len(upcoming))
	for _, c := range upcoming {
		if !taken[c.ID] {
			available = append(available, c)
		}
	}
	return available, nil
}

// Register enrolls the student in a course that has not started.
func (e *Engine) Register(ctx context.Context, studentID, courseID int64) (*entity.Registration, error) {
	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}

	now := e.now()
	if course.Started(now) {
		return nil, ErrAlreadyStarted
	}

	reg := entity.NewRegistration(studentID, courseID)
	reg.RegisteredAt = now
	created, err := e.registrations.Create(ctx, reg)
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return created, nil
}

// StudentCourses resolves the student's registrations to courses.
// Registrations whose course no longer exists are dropped from the result
// and deleted from the store.
func (e *Engine) StudentCourses(ctx context.Context, studentID int64) ([]RegisteredCourse, error) {
	regs, err := e.registrations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	out := make([]RegisteredCourse, 0, len(regs))
	var orphans []entity.Registration
	for _, reg := range regs {
		course, err := e.courses.GetByID(ctx, reg.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course %d: %w", reg.CourseID, err)
		}
		if course == nil {
			orphans = append(orphans, reg)
			continue
		}
		out = append(out, RegisteredCourse{Registration: reg, Course: *course})
	}

	if err := e.collectOrphans(ctx, orphans); err != nil {
		return nil, err
	}
	return out, nil
}

// collectOrphans deletes registrations that point at deleted courses.
// It is the only cleanup path for them.
func (e *Engine) collectOrphans(ctx context.Context, orphans []entity.Registration) error {
	for _, reg := range orphans {
		if err := e.registrations.DeleteByID(ctx, reg.ID); err != nil {
			return fmt.Errorf("delete orphaned registration %d: %w", reg.ID, err)
		}
		logger.LogInfo("removed orphaned registration",
			"registration_id", reg.ID, "student_id", reg.StudentID, "course_id", reg.CourseID)
	}
	return nil
}

// Unregister removes the student's registration if one exists. A missing
// registration is not an error.
func (e *Engine) Unregister(ctx context.Context, studentID, courseID int64) error {
	if _, err := e.registrations.Delete(ctx, studentID, courseID); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

func (e *Engine) TeacherCourses(ctx context.Context, teacherID int64) (*TeacherView, error) {
	unassigned, err := e.courses.ListUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unassigned courses: %w", err)
	}
	assigned, err := e.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list assigned courses: %w", err)
	}
	return &TeacherView{Unassigned: unassigned, Assigned: assigned}, nil
}

// AssignTeacher claims an unassigned course. A course that already has a
// teacher, including this one, is rejected with ErrAlreadyAssigned.
func (e *Engine) AssignTeacher(ctx context.Context, teacherID, courseID int64) error {
	ok, err := e.courses.AssignTeacher(ctx, courseID, teacherID)
	if err != nil {
		return fmt.Errorf("assign teacher: %w", err)
	}
	if ok {
		return nil
	}

	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return ErrNotFound
	}
	return ErrAlreadyAssigned
}

// UnassignTeacher releases a course owned by the teacher. A missing course
// and a course owned by someone else both yield ErrNotFound.
func (e *Engine) UnassignTeacher(ctx context.Context, teacherID, courseID int64) error {
	ok, err := e.courses.UnassignTeacher(ctx, courseID, teacherID)
	if err != nil {
		return fmt.Errorf("unassign teacher: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// CourseRoster lists the students registered in a course owned by the
// teacher. Registrations whose student cannot be resolved are skipped.
func (e *Engine) CourseRoster(ctx context.Context, teacherID, courseID int64) (*Roster, error) {
	course, err := e.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	if !course.OwnedBy(teacherID) {
		return nil, ErrForbidden
	}

	regs, err := e.registrations.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	roster := &Roster{Course: *course, Students: make([]entity.User, 0, len(regs))}
	for _, reg := range regs {
		u, err := e.users.GetByID(ctx, reg.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student %d: %w", reg.StudentID, err)
		}
		if u == nil {
			continue
		}
		roster.Students = append(roster.Students, *u)
	}
	return roster, nil
}
