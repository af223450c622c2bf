package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("STORAGE", "")
	t.Setenv("AUTH_JWT_PREVIOUS_SECRETS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageMongo, cfg.Storage)
	assert.Equal(t, "forms", cfg.FormCollection)
	assert.Equal(t, "feedbacks", cfg.FeedbackCollection)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "admin@feedback.com", cfg.DefaultAdmin.Email)
	assert.Equal(t, "password", cfg.DefaultAdmin.Password)
	require.Len(t, cfg.JWTConfigs, 1)
	assert.Equal(t, []byte("s3cret"), cfg.JWTConfigs[0].Secret)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "new")
	t.Setenv("AUTH_JWT_PREVIOUS_SECRETS", "old1, ,old2")
	t.Setenv("STORAGE", "Memory")
	t.Setenv("API_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("AUTH_TOKEN_TTL", "90m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TIMEZONE", "Asia/Tokyo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	require.Len(t, cfg.JWTConfigs, 3)
	assert.Equal(t, []byte("old2"), cfg.JWTConfigs[2].Secret)
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())
}

func TestLoadRequiresSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_JWT_SECRET", "x")
	t.Setenv("STORAGE", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestLocationFallback(t *testing.T) {
	cfg := Config{Timezone: "Nowhere/Special"}
	assert.Equal(t, time.UTC, cfg.Location())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
