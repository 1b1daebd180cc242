package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_defaults(t *testing.T) {
	t.Setenv("REMOTE_API_BASE_URL", "https://api.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.RemoteAPIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RemoteAPITimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, uint16(8085), cfg.HttpServerPort)
	assert.Equal(t, 4*time.Minute, cfg.CacheWarmInterval)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadConfig_corsList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfig_rejectsInvalidValues(t *testing.T) {
	t.Setenv("PAGE_SIZE", "0")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_rejectsBadBaseURL(t *testing.T) {
	t.Setenv("REMOTE_API_BASE_URL", "not a url")

	_, err := LoadConfig()
	assert.Error(t, err)
}
