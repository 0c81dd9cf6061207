package auth

import (
	"crypto/subtle"

	"coursehub/internal/config"
	"coursehub/internal/entity"
)

// SignupPolicy decides whether a signup may claim a role.
type SignupPolicy interface {
	Allow(role entity.Role, code string) error
}

// SecretCodePolicy lets anyone sign up as a student and requires a shared
// per-role enrollment code for every other role.
type SecretCodePolicy struct {
	codes map[entity.Role]string
}

func NewSecretCodePolicy(cfg config.SignupConfig) *SecretCodePolicy {
	return &SecretCodePolicy{codes: map[entity.Role]string{
		entity.RoleTeacher: cfg.TeacherCode,
		entity.RoleAdmin:   cfg.AdminCode,
	}}
}

func (p *SecretCodePolicy) Allow(role entity.Role, code string) error {
	if role == entity.RoleStudent {
		return nil
	}
	want, ok := p.codes[role]
	if !ok || want == "" {
		return &CodeError{Role: role}
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(code)) != 1 {
		return &CodeError{Role: role}
	}
	return nil
}
