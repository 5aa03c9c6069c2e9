package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	for _, key := range []string{
		"SERVER_PORT", "SERVER_HOST", "DB_HOST", "DB_PORT", "DB_USER",
		"DB_NAME", "REDIS_HOST", "REDIS_PORT", "REDIS_URL",
		"ALLOWED_ORIGINS", "UPLOADS_DIR", "S3_BUCKET_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "comfortbites", cfg.DBName)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Empty(t, cfg.S3Bucket)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "recipes_dev")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:5173")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "recipes_dev", cfg.DBName)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t, []string{"a"}, splitOrigins("a"))
	assert.Equal(t, []string{"a", "b"}, splitOrigins(" a ,, b "))
}
