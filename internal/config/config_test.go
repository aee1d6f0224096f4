package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_URL", "http://backend:9000/api")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, FrontendTerminal, cfg.Frontend)
	assert.Equal(t, "http://backend:9000/api", cfg.Backend.URL)
	assert.Equal(t, "audio/webm", cfg.Audio.MimeType)
	assert.Equal(t, 4096, cfg.Audio.ChunkSize)
	assert.Equal(t, "/survey", cfg.Mattermost.Command)
}

func TestNewMattermostRequiresCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRONTEND", FrontendMattermost)

	_, err := New()
	assert.ErrorIs(t, err, ErrMattermostMissing)
}

func TestNewUnknownFrontend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FRONTEND", "gui")

	_, err := New()
	assert.ErrorIs(t, err, ErrUnknownFrontend)
}
