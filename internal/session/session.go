package session

import (
	"context"
	"errors"
	"net/http"

	"coursehub/internal/config"
	"coursehub/internal/entity"
	"coursehub/internal/logger"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyName     = "name"
	keyRole     = "role"
)

// Data is the per-session projection of a user. Name is resynced on
// profile edits; Username and Role are fixed for the life of the session.
type Data struct {
	UserID   int64
	Username string
	Name     string
	Role     entity.Role
}

func (d Data) LoggedIn() bool {
	return d.Username != ""
}

type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

// NewCookieManager builds a cookie-backed manager. Missing keys are
// generated, so sessions do not survive a restart in that case.
func NewCookieManager(cfg config.SessionConfig) *Manager {
	authKey := []byte(cfg.AuthKey)
	if len(authKey) == 0 {
		logger.LogWarn("SESSION_AUTH_KEY not set, using a random key")
		authKey = securecookie.GenerateRandomKey(64)
	}
	keyPairs := [][]byte{authKey}
	if cfg.EncryptKey != "" {
		keyPairs = append(keyPairs, []byte(cfg.EncryptKey))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return NewManager(store, cfg.Name)
}

// Load returns the session data attached to r. A missing or undecodable
// cookie yields an empty Data.
func (m *Manager) Load(r *http.Request) Data {
	s, err := m.store.Get(r, m.name)
	if err != nil {
		logger.LogDebug("discarding unreadable session", "error", err)
		return Data{}
	}
	return dataFrom(s)
}

func dataFrom(s *sessions.Session) Data {
	var d Data
	d.UserID, _ = s.Values[keyUserID].(int64)
	d.Username, _ = s.Values[keyUsername].(string)
	d.Name, _ = s.Values[keyName].(string)
	role, _ := s.Values[keyRole].(string)
	d.Role = entity.Role(role)
	return d
}

// Start replaces the session contents with the projection of u.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, u *entity.User) error {
	s, _ := m.store.Get(r, m.name)
	s.Values = map[interface{}]interface{}{
		keyUserID:   u.ID,
		keyUsername: u.Username,
		keyName:     u.Name,
		keyRole:     string(u.Role),
	}
	return m.store.Save(r, w, s)
}

// SetName updates the cached display name.
func (m *Manager) SetName(w http.ResponseWriter, r *http.Request, name string) error {
	s, err := m.store.Get(r, m.name)
	if err != nil {
		return err
	}
	if d := dataFrom(s); !d.LoggedIn() {
		return errors.New("no active session")
	}
	s.Values[keyName] = name
	return m.store.Save(r, w, s)
}

// Destroy clears the session and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, m.name)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return m.store.Save(r, w, s)
}

type dataKey struct{}

func WithData(ctx context.Context, d Data) context.Context {
	return context.WithValue(ctx, dataKey{}, d)
}

func FromContext(ctx context.Context) (Data, bool) {
	d, ok := ctx.Value(dataKey{}).(Data)
	return d, ok
}
