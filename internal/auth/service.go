package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/internal/entity"
	"coursehub/internal/logger"
	"coursehub/internal/repository"
	"coursehub/internal/validate"
)

type UserStore interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateProfile(ctx context.Context, id int64, name, password, address, phone string) error
}

// SignupInput is the signup form.
type SignupInput struct {
	Name     string `form:"name" validate:"required,max=100"`
	Username string `form:"username" validate:"required,max=50"`
	Password string `form:"password" validate:"required"`
	SchoolID string `form:"school_id" validate:"required,max=50"`
	Role     string `form:"role" validate:"required,oneof=student teacher admin"`
	Code     string `form:"code"`
	Address  string `form:"address" validate:"max=200"`
	Phone    string `form:"phone" validate:"max=30"`
}

// ProfileInput is the self-service profile form. A blank password keeps
// the current one.
type ProfileInput struct {
	Name     string `form:"name" validate:"required,max=100"`
	Password string `form:"password"`
	Address  string `form:"address" validate:"max=200"`
	Phone    string `form:"phone" validate:"max=30"`
}

type Service struct {
	users       UserStore
	credentials Credentials
	policy      SignupPolicy
}

func NewService(users UserStore, credentials Credentials, policy SignupPolicy) *Service {
	return &Service{users: users, credentials: credentials, policy: policy}
}

// Login returns the user whose username and password both match.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !s.credentials.Match(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Signup validates in, applies the signup policy for the requested role
// and creates the user. It does not start a session.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.SchoolID = strings.TrimSpace(in.SchoolID)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	role, _ := entity.ParseRole(in.Role)
	if err := s.policy.Allow(role, in.Code); err != nil {
		logger.LogWarn("signup rejected by policy", "username", in.Username, "role", role)
		return nil, err
	}

	sealed, err := s.credentials.Seal(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &entity.User{
		SchoolID: in.SchoolID,
		Name:     in.Name,
		Username: in.Username,
		Password: sealed,
		Role:     role,
		Address:  in.Address,
		Phone:    in.Phone,
	})
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			switch dup.Field {
			case repository.FieldSchoolID:
				return nil, ErrSchoolIDTaken
			case repository.FieldUsername:
				return nil, ErrUsernameTaken
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.LogInfo("user signed up", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile saves the editable fields and returns the stored user.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	password := current.Password
	if in.Password != "" {
		if password, err = s.credentials.Seal(in.Password); err != nil {
			return nil, err
		}
	}

	err = s.users.UpdateProfile(ctx, userID, in.Name, password, in.Address, in.Phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	current.Name = in.Name
	current.Password = password
	current.Address = in.Address
	current.Phone = in.Phone
	return current, nil
}
