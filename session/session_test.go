package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/model"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestValid(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"future expiry", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), true},
		{"no expiry claim", signed(t, jwt.MapClaims{"sub": "admin"}), true},
		{"expired", signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), false},
		{"expires exactly now", signed(t, jwt.MapClaims{"exp": now.Unix()}), false},
		{"empty", "", false},
		{"two segments", "aaa.bbb", false},
		{"four segments", "a.b.c.d", false},
		{"payload not base64", "eyJhbGciOiJIUzI1NiJ9.!!!.sig", false},
		{"payload is array", "eyJhbGciOiJIUzI1NiJ9.WzEsMl0.sig", false},
		{"payload is null", "eyJhbGciOiJIUzI1NiJ9.bnVsbA.sig", false},
		{"exp is a string", "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOiJzb29uIn0.sig", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.token, now))
		})
	}
}

func TestInspectReportsExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	exp := now.Add(2 * time.Hour)
	claims, err := Inspect(signed(t, jwt.MapClaims{"exp": exp.Unix(), "username": "admin"}), now)
	require.NoError(t, err)
	require.NotNil(t, claims.Expires)
	assert.True(t, claims.Expires.Equal(exp))
	assert.Equal(t, "admin", claims.MapClaims["username"])

	_, err = Inspect("nope", now)
	assert.ErrorIs(t, err, ErrTokenShape)
}

func TestCurrentClearsStaleToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := NewMemory(model.Session{
		Token:    signed(t, jwt.MapClaims{"exp": now.Add(-time.Second).Unix()}),
		Username: "admin",
	})

	_, ok := Current(store, now)
	assert.False(t, ok)

	_, stored := store.Load()
	assert.False(t, stored, "expired token should have been cleared")
}

func TestCurrentKeepsValidToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tok := signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	store := NewMemory(model.Session{Token: tok, Username: "admin"})

	sess, ok := Current(store, now)
	require.True(t, ok)
	assert.Equal(t, "admin", sess.Username)
	assert.Equal(t, tok, sess.Token)
}

func TestCurrentEmptyStore(t *testing.T) {
	_, ok := Current(&Memory{}, time.Now())
	assert.False(t, ok)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	backing := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	get := func(r *http.Request) func() (*sessions.Session, error) {
		return func() (*sessions.Session, error) { return backing.Get(r, "admin_session") }
	}
	require.NoError(t, FromSession(get(r), r, w).Save(model.Session{Token: "a.b.c", Username: "admin"}))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	r2 := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	w2 := httptest.NewRecorder()
	cs := FromSession(get(r2), r2, w2)
	sess, ok := cs.Load()
	require.True(t, ok)
	assert.Equal(t, "a.b.c", sess.Token)
	assert.Equal(t, "admin", sess.Username)

	require.NoError(t, cs.Clear())
	_, ok = cs.Load()
	assert.False(t, ok)
}

func TestCookieStoreWithoutSession(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	cs := FromSession(nil, r, w)

	_, ok := cs.Load()
	assert.False(t, ok)
	assert.ErrorIs(t, cs.Save(model.Session{Token: "a.b.c"}), ErrNoSession)
	assert.ErrorIs(t, cs.Clear(), ErrNoSession)
}
