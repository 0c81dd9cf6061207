package entity

import "time"

type Course struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Section     string    `json:"section"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Description string    `json:"description"`
	TeacherID   *int64    `json:"teacher_id,omitempty"`
}

// Assigned reports whether a teacher currently owns the course.
func (c Course) Assigned() bool {
	return c.TeacherID != nil
}

// OwnedBy reports whether teacherID is the course's current teacher.
func (c Course) OwnedBy(teacherID int64) bool {
	return c.TeacherID != nil && *c.TeacherID == teacherID
}

// Started reports whether the course has begun at the given instant.
func (c Course) Started(now time.Time) bool {
	return !c.StartAt.After(now)
}
