package pubadmin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		c := Config{APIBaseURL: "https://api.example.com/api", SessionSecret: "s"}
		c.setDefaults()
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing api", func(c *Config) { c.APIBaseURL = "" }, "PUBADMIN_API_BASE_URL is required"},
		{"relative api", func(c *Config) { c.APIBaseURL = "/api" }, "absolute http(s) URL"},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, "PUBADMIN_SESSION_SECRET is required"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "PUBADMIN_LOG_LEVEL"},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, "cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.setDefaults()
	assert.Equal(t, ":3000", c.Addr)
	assert.Equal(t, time.Minute, c.StatsTTL)
	assert.Equal(t, "res.cloudinary.com", c.AssetHost)
	assert.Equal(t, int64(10<<20), c.MaxUploadSize)
	assert.Equal(t, 5, c.LoginAttempts)
	assert.Zero(t, c.RequestTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PUBADMIN_API_BASE_URL", "http://localhost:5000/api")
	t.Setenv("PUBADMIN_SESSION_SECRET", "secret")
	t.Setenv("PUBADMIN_REQUEST_TIMEOUT", "15s")
	t.Setenv("PUBADMIN_LOG_LEVEL", "debug")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", c.APIBaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Hour, c.DraftTTL)
}
