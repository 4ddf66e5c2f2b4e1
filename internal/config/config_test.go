package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp isolates Load from config.yaml or .env files in the package dir.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DECOHOGAR_JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load([]string{})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "decohogar.db", cfg.DBDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1<<20, cfg.BodyLimit)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 260000, cfg.Hash.Iterations)
	assert.Equal(t, 120, cfg.RateLimit.Max)
	assert.Equal(t, 5, cfg.LoginLimit.Max)
	assert.Equal(t, 10*time.Minute, cfg.LoginLimit.Window)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DECOHOGAR_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DECOHOGAR_DB_DSN", "/tmp/shop.db")
	t.Setenv("DECOHOGAR_REDIS_ADDR", "localhost:6379")
	t.Setenv("DECOHOGAR_JWT_ACCESS_TTL", "5m")

	cfg, err := Load([]string{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shop.db", cfg.DBDSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
}

func TestLoadYAMLAndDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("addr: \":9090\"\nseed: true\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DECOHOGAR_JWT_SECRET=from-dotenv-secret-value\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DECOHOGAR_JWT_SECRET") })

	cfg, err := Load([]string{})
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "from-dotenv-secret-value", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	good := Config{
		BodyLimit: 1,
		JWT:       JWTConfig{Secret: "0123456789abcdef", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		Hash:      HashConfig{Iterations: 1},
	}
	require.NoError(t, good.Validate())

	cases := map[string]func(*Config){
		"no secret":        func(c *Config) { c.JWT.Secret = "" },
		"short secret":     func(c *Config) { c.JWT.Secret = "corto" },
		"refresh < access": func(c *Config) { c.JWT.RefreshTTL = time.Second },
		"no iterations":    func(c *Config) { c.Hash.Iterations = 0 },
		"no body limit":    func(c *Config) { c.BodyLimit = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := good
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
