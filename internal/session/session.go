// Package session keeps the credentials of the signed-in user.
// A session is authenticated while it holds an unexpired bearer token.
package session

import (
	"encoding/json"
	"time"

	"github.com/manav03panchal/jobtrack/internal/auth"
	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/validate"
)

// Key is the storage key of the session. It is never exported.
const Key = "jobtrack-session"

// KV is the raw key/value access a session needs.
type KV interface {
	GetRaw(key string) ([]byte, bool, error)
	SetRaw(key string, data []byte) error
	Delete(key string) error
}

// Session is the signed-in user.
type Session struct {
	Server  string    `json:"server"`
	Token   string    `json:"token"`
	User    string    `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

// New creates a session for token on server. The user is read from the
// token subject.
func New(server, token string) (*Session, error) {
	if err := validate.ServerURL(server); err != nil {
		return nil, err
	}
	claims, err := auth.Inspect(token)
	if err != nil {
		return nil, errors.NewUserError("The token is not a JobTrack access token",
			"Mint one with 'jobtrack token --user <name>' on the server host")
	}
	if claims.Subject == "" {
		return nil, errors.NewUserError("The token has no user", "Mint a token with --user set")
	}
	if auth.Expired(claims, time.Now()) {
		return nil, errors.NewUserError("The token has expired", "Mint a new token and log in again")
	}

	return &Session{
		Server:  server,
		Token:   token,
		User:    claims.Subject,
		SavedAt: time.Now().UTC(),
	}, nil
}

// Authenticated reports whether the session can be used at now.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || s.Token == "" || s.Server == "" {
		return false
	}
	claims, err := auth.Inspect(s.Token)
	if err != nil {
		return false
	}
	return !auth.Expired(claims, now)
}

// ExpiresAt returns the token expiry, zero when the token never expires.
func (s *Session) ExpiresAt() time.Time {
	claims, err := auth.Inspect(s.Token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Load returns the stored session, or nil when nobody is signed in.
// An unreadable session is treated as signed out.
func Load(kv KV) (*Session, error) {
	data, ok, err := kv.GetRaw(Key)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load session", "local storage read failed", err)
	}
	if !ok {
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}
	return &s, nil
}

// Save stores s, replacing any previous session.
func Save(kv KV, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return kv.SetRaw(Key, data)
}

// Clear signs out.
func Clear(kv KV) error {
	return kv.Delete(Key)
}
