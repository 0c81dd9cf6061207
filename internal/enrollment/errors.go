package enrollment

import "errors"

var (
	ErrNotFound          = errors.New("course not found")
	ErrAlreadyStarted    = errors.New("course has already started")
	ErrAlreadyRegistered = errors.New("already registered for this course")
	ErrAlreadyAssigned   = errors.New("course already has a teacher")
	ErrForbidden         = errors.New("course is not assigned to you")
	ErrCodeTaken         = errors.New("course ID already exists")
)
