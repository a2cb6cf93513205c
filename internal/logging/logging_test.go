package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}

func TestNew_JSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	log.Debug().Str("k", "v").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "v", entry["k"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info().Msg("quiet")
	assert.Empty(t, buf.String())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "game.log")
	log, closeFn, err := OpenFile(path, "info")
	require.NoError(t, err)
	log.Info().Msg("written")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestDefaultFile_UsesStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, "/tmp/state/weirdtraffic/weirdtraffic.log", DefaultFile())
}
