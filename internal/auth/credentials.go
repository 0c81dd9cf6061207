package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"coursehub/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// Credentials turns a submitted password into its stored form and checks
// a submitted password against a stored one.
type Credentials interface {
	Seal(plain string) (string, error)
	Match(stored, plain string) bool
}

// PlainCredentials stores passwords as submitted.
type PlainCredentials struct{}

func (PlainCredentials) Seal(plain string) (string, error) {
	return plain, nil
}

func (PlainCredentials) Match(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// BcryptCredentials stores bcrypt hashes.
type BcryptCredentials struct {
	Cost int
}

func (b BcryptCredentials) Seal(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (BcryptCredentials) Match(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewCredentials returns the codec named by cfg.Credentials.
func NewCredentials(cfg config.AuthConfig) (Credentials, error) {
	switch cfg.Credentials {
	case "", "plain":
		return PlainCredentials{}, nil
	case "bcrypt":
		if cfg.BcryptCost != 0 && (cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost) {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cfg.BcryptCost)
		}
		return BcryptCredentials{Cost: cfg.BcryptCost}, nil
	default:
		return nil, errors.New("unknown credentials codec " + cfg.Credentials)
	}
}
