package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubadmin/session"
)

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pubadmin dev\n", out.String())
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	err := inspectToken(&out, token(t, jwt.MapClaims{"sub": "admin", "exp": now.Add(time.Hour).Unix()}), now)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "sub: admin")
	assert.Contains(t, out.String(), "expires: 2024-06-01T13:00:00Z")
	assert.True(t, strings.HasSuffix(out.String(), "token accepted\n"))

	out.Reset()
	err = inspectToken(&out, token(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now)
	assert.ErrorIs(t, err, session.ErrTokenExpired)

	out.Reset()
	err = inspectToken(&out, token(t, jwt.MapClaims{"sub": "x"}), now)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "expires: never")

	err = inspectToken(&out, "not-a-token", now)
	assert.ErrorIs(t, err, session.ErrTokenShape)
}

func TestTokenCommandNeedsArgument(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"token"})
	assert.Error(t, cmd.Execute())
}
