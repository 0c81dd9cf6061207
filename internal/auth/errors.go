package auth

import (
	"errors"
	"fmt"

	"coursehub/internal/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrSchoolIDTaken      = errors.New("school id already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)

// CodeError rejects a signup whose enrollment code does not match the
// requested role.
type CodeError struct {
	Role entity.Role
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("invalid %s enrollment code", e.Role)
}
