package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coursehub/internal/entity"
)

const FieldCode = "code"

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, name, section, start_at, end_at, description, teacher_id`

func scanCourse(row interface{ Scan(...any) error }) (*entity.Course, error) {
	var c entity.Course
	var teacher sql.NullInt64
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Section, &c.StartAt, &c.EndAt, &c.Description, &teacher); err != nil {
		return nil, err
	}
	if teacher.Valid {
		v := teacher.Int64
		c.TeacherID = &v
	}
	return &c, nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]entity.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []entity.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Create inserts an unassigned course. A taken code is reported as a
// *DuplicateError.
func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) (*entity.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO courses (code, name, section, start_at, end_at, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, c.Code, c.Name, c.Section, c.StartAt.UTC(), c.EndAt.UTC(), c.Description).Scan(&c.ID)
	if err != nil {
		return nil, duplicate(err, FieldCode)
	}
	c.TeacherID = nil
	return c, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*entity.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	c, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY code, id`)
}

// ListStartingAfter returns courses whose start is strictly after t.
func (r *CourseRepository) ListStartingAfter(ctx context.Context, t time.Time) ([]entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE start_at > $1 ORDER BY code, id`, t.UTC())
}

func (r *CourseRepository) ListUnassigned(ctx context.Context) ([]entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE teacher_id IS NULL ORDER BY code, id`)
}

func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]entity.Course, error) {
	return r.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses WHERE teacher_id = $1 ORDER BY code, id`, teacherID)
}

// Update rewrites the admin-editable fields. The teacher reference is
// left untouched.
func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE courses
		SET code = $1, name = $2, section = $3, start_at = $4, end_at = $5, description = $6
		WHERE id = $7
	`, c.Code, c.Name, c.Section, c.StartAt.UTC(), c.EndAt.UTC(), c.Description, c.ID)
	if err != nil {
		return duplicate(err, FieldCode)
	}
	return requireRow(res)
}

// Delete removes the course. Registrations pointing at it are left for
// the enrollment engine to collect.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// AssignTeacher sets the teacher only if the course is currently
// unassigned. It reports whether a row changed.
func (r *CourseRepository) AssignTeacher(ctx context.Context, courseID, teacherID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET teacher_id = $1
		WHERE id = $2 AND teacher_id IS NULL
	`, teacherID, courseID)
	if err != nil {
		return false, err
	}
	return changed(res)
}

// UnassignTeacher clears the teacher only if it currently equals teacherID.
func (r *CourseRepository) UnassignTeacher(ctx context.Context, courseID, teacherID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET teacher_id = NULL
		WHERE id = $1 AND teacher_id = $2
	`, courseID, teacherID)
	if err != nil {
		return false, err
	}
	return changed(res)
}

func changed(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func requireRow(res sql.Result) error {
	ok, err := changed(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
