package repository

import (
	"context"
	"database/sql"
	"time"

	"coursehub/internal/entity"
)

const FieldRegistration = "student_id"

type RegistrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create stores reg. A second registration for the same student and
// course is reported as a *DuplicateError.
func (r *RegistrationRepository) Create(ctx context.Context, reg entity.Registration) (*entity.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if reg.RegisteredAt.IsZero() {
		reg.RegisteredAt = time.Now()
	}
	reg.RegisteredAt = reg.RegisteredAt.UTC()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (student_id, course_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, reg.StudentID, reg.CourseID, reg.RegisteredAt).Scan(&reg.ID)
	if err != nil {
		return nil, duplicate(err, FieldRegistration)
	}
	return &reg, nil
}

func (r *RegistrationRepository) list(ctx context.Context, query string, arg int64) ([]entity.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []entity.Registration
	for rows.Next() {
		var reg entity.Registration
		if err := rows.Scan(&reg.ID, &reg.StudentID, &reg.CourseID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]entity.Registration, error) {
	return r.list(ctx, `
		SELECT id, student_id, course_id, registered_at
		FROM registrations
		WHERE student_id = $1
		ORDER BY registered_at, id
	`, studentID)
}

func (r *RegistrationRepository) ListByCourse(ctx context.Context, courseID int64) ([]entity.Registration, error) {
	return r.list(ctx, `
		SELECT id, student_id, course_id, registered_at
		FROM registrations
		WHERE course_id = $1
		ORDER BY registered_at, id
	`, courseID)
}

// Delete removes the registration of studentID for courseID and reports
// whether one existed.
func (r *RegistrationRepository) Delete(ctx context.Context, studentID, courseID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return false, err
	}
	return changed(res)
}

func (r *RegistrationRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	return err
}
