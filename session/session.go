// Package session holds the admin's bearer token and username and decides
// whether a stored token can still be trusted.
//
// A Store is the single authoritative place where a session is set or
// cleared. Callers obtain the current session through Current, which
// validates the token locally and discards it when it is malformed or
// expired.
package session

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"

	"github.com/eringen/pubadmin/model"
)

// ErrNoSession is returned by Store implementations that cannot find a
// session to operate on.
var ErrNoSession = errors.New("session: no session")

var logger = log.New("session")

// Logger returns the package logger so callers can adjust its level.
func Logger() *log.Logger {
	return logger
}

// Store persists a single admin session.
type Store interface {
	// Load returns the stored session, if any. It does not validate it.
	Load() (model.Session, bool)
	// Save replaces the stored session.
	Save(model.Session) error
	// Clear removes the stored session.
	Clear() error
}

// Valid reports whether token looks like a signed-claims token whose payload
// decodes to a JSON object and, when that object carries an exp claim, whose
// expiry lies strictly after now. Decode failures are treated as invalid.
func Valid(token string, now time.Time) bool {
	_, err := Inspect(token, now)
	if err != nil {
		logger.Debugf("rejecting token: %v", err)
		return false
	}
	return true
}

// Token errors returned by Inspect.
var (
	ErrTokenShape   = errors.New("token does not have three segments")
	ErrTokenPayload = errors.New("token payload is not a JSON object")
	ErrTokenExpired = errors.New("token is expired")
)

// Claims is the decoded payload of a token.
type Claims struct {
	jwt.MapClaims
	Expires *time.Time
}

// Inspect decodes the payload of token and checks its expiry against now.
// The signature is not verified; only the backend can do that.
func Inspect(token string, now time.Time) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrTokenShape
	}
	raw, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, errors.Join(ErrTokenPayload, err)
	}
	var mc jwt.MapClaims
	if err := json.Unmarshal(raw, &mc); err != nil {
		return Claims{}, errors.Join(ErrTokenPayload, err)
	}
	if mc == nil {
		return Claims{}, ErrTokenPayload
	}
	claims := Claims{MapClaims: mc}
	if _, ok := mc["exp"]; !ok {
		return claims, nil
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return claims, errors.Join(ErrTokenPayload, err)
	}
	t := exp.Time
	claims.Expires = &t
	if !t.After(now) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

// Current returns the stored session when its token is still valid. A stale
// or malformed token is cleared from the store and reported as absent.
func Current(s Store, now time.Time) (model.Session, bool) {
	sess, ok := s.Load()
	if !ok || sess.Token == "" {
		return model.Session{}, false
	}
	if !Valid(sess.Token, now) {
		if err := s.Clear(); err != nil {
			logger.Warnf("clear stale session: %v", err)
		}
		return model.Session{}, false
	}
	return sess, true
}

// Memory is an in-process Store. The zero value is empty and ready to use.
type Memory struct {
	mu   sync.Mutex
	sess *model.Session
}

// NewMemory returns a Memory store holding sess.
func NewMemory(sess model.Session) *Memory {
	return &Memory{sess: &sess}
}

func (m *Memory) Load() (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return model.Session{}, false
	}
	return *m.sess, true
}

func (m *Memory) Save(sess model.Session) error {
	m.mu.Lock()
	m.sess = &sess
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.sess = nil
	m.mu.Unlock()
	return nil
}

// Synchronized wraps s so it can be used from several goroutines at once.
func Synchronized(s Store) Store {
	if _, ok := s.(*Memory); ok {
		return s
	}
	return &syncStore{inner: s}
}

type syncStore struct {
	mu    sync.Mutex
	inner Store
}

func (s *syncStore) Load() (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Load()
}

func (s *syncStore) Save(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Save(sess)
}

func (s *syncStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Clear()
}
