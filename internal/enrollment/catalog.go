package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursehub/internal/entity"
	"coursehub/internal/repository"
	"coursehub/internal/validate"
)

type CatalogStore interface {
	Create(ctx context.Context, c *entity.Course) (*entity.Course, error)
	GetByID(ctx context.Context, id int64) (*entity.Course, error)
	List(ctx context.Context) ([]entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseInput is the admin course form.
type CourseInput struct {
	Code        string    `form:"code" validate:"required"`
	Name        string    `form:"name" validate:"required"`
	Section     string    `form:"section" validate:"required"`
	StartAt     time.Time `form:"start_at" validate:"required"`
	EndAt       time.Time `form:"end_at" validate:"required,gtefield=StartAt"`
	Description string    `form:"description" validate:"required"`
}

func (in CourseInput) normalized() CourseInput {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Section = strings.TrimSpace(in.Section)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in CourseInput) apply(c *entity.Course) {
	c.Code = in.Code
	c.Name = in.Name
	c.Section = in.Section
	c.StartAt = in.StartAt
	c.EndAt = in.EndAt
	c.Description = in.Description
}

// InputFrom returns the form values of an existing course.
func InputFrom(c entity.Course) CourseInput {
	return CourseInput{
		Code:        c.Code,
		Name:        c.Name,
		Section:     c.Section,
		StartAt:     c.StartAt,
		EndAt:       c.EndAt,
		Description: c.Description,
	}
}

// Catalog implements admin course management.
type Catalog struct {
	courses CatalogStore
}

func NewCatalog(courses CatalogStore) *Catalog {
	return &Catalog{courses: courses}
}

func (c *Catalog) List(ctx context.Context) ([]entity.Course, error) {
	courses, err := c.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (c *Catalog) Get(ctx context.Context, id int64) (*entity.Course, error) {
	course, err := c.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

// Create validates in and stores a new unassigned course.
func (c *Catalog) Create(ctx context.Context, in CourseInput) (*entity.Course, error) {
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var course entity.Course
	in.apply(&course)
	created, err := c.courses.Create(ctx, &course)
	if err != nil {
		return nil, catalogError("create course", err)
	}
	return created, nil
}

// Update validates in and rewrites the course fields. The teacher
// assignment is not touched.
func (c *Catalog) Update(ctx context.Context, id int64, in CourseInput) (*entity.Course, error) {
	in = in.normalized()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	course, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(course)
	if err := c.courses.Update(ctx, course); err != nil {
		return nil, catalogError("update course", err)
	}
	return course, nil
}

// Delete removes the course. Its registrations become orphans that the
// engine collects on the next student listing.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	if err := c.courses.Delete(ctx, id); err != nil {
		return catalogError("delete course", err)
	}
	return nil
}

func catalogError(op string, err error) error {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup):
		return ErrCodeTaken
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
