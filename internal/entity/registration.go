package entity

import "time"

type Registration struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	CourseID     int64     `json:"course_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewRegistration(studentID, courseID int64) Registration {
	return Registration{
		StudentID: studentID,
		CourseID:  courseID,
	}
}
