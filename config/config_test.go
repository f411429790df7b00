package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is picked up.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// unsetenv removes keys for the duration of the test; an empty value would
// override the defaults.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, "GO_ENV", "PORT", "CONTEXT_TIMEOUT", "EMAIL_PROVIDER")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.ContextTimeout)
	require.Equal(t, "noop", cfg.Mailer.Provider)
	require.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GO_ENV", "staging")
	t.Setenv("PORT", "9090")
	t.Setenv("CONTEXT_TIMEOUT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("EMAIL_PROVIDER", "ses")
	t.Setenv("EMAIL_FROM_ADDRESS", "events@devevents.test")
	t.Setenv("SES_INSECURE_SKIP_VERIFY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 750*time.Millisecond, cfg.ContextTimeout)
	require.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "events@devevents.test", cfg.Mailer.FromAddress)
	require.True(t, cfg.Mailer.SESInsecureSkipVerify)
}

func TestLoad_DotEnvOutsideProduction(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, "GO_ENV", "PUBLIC_BASE_URL")
	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("PUBLIC_BASE_URL=https://devevents.test\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://devevents.test", cfg.PublicBaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "production without admin secret", env: map[string]string{"GO_ENV": "production"}},
		{name: "ses without from address", env: map[string]string{"EMAIL_PROVIDER": "ses"}},
		{name: "non-positive timeout", env: map[string]string{"CONTEXT_TIMEOUT": "0s"}},
		{name: "unparseable timeout", env: map[string]string{"CONTEXT_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			unsetenv(t, "GO_ENV", "ADMIN_JWT_SECRET", "EMAIL_PROVIDER", "EMAIL_FROM_ADDRESS", "CONTEXT_TIMEOUT")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "production", "warn")
	logger.Info("dropped")
	logger.Warn("kept", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "kept", rec["msg"])
	require.Equal(t, "v", rec["k"])

	buf.Reset()
	newLogger(&buf, "development", "debug").Debug("hello")
	require.Contains(t, buf.String(), "msg=hello")
}
