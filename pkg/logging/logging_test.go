package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kataras/figma-context/pkg/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestAdapterWritesConsole(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(New(config.Log{Level: "info"}, &buf))

	a.Infof("fetched %s", "ABC123")
	a.Warnf("slow %d", 2)

	out := buf.String()
	assert.Contains(t, out, "fetched ABC123")
	assert.Contains(t, out, "slow 2")
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	a := NewAdapter(New(config.Log{Level: "error"}, &buf))

	a.Infof("hidden")
	a.Errorf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figma.log")
	logger := New(config.Log{Level: "info", File: path, MaxSize: 1}, nil)

	NewAdapter(logger).Infof("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to file"`)
}
