package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelWarn, parseLevel("Warning"))
	assert.Equal(t, slog.LevelWarn+2, parseLevel("warn+2"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", JSON: true, Output: &buf})
	defer Configure(Options{})
	L().Debug("hidden")
	L().Info("shown", "relation", "equality")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"relation":"equality"`)
}

func TestViolationsRecord(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{JSON: true, Output: &buf})
	defer Configure(Options{})

	Violations("subset", 4, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "There are 2 violations of MROP subset.", rec["msg"])
	assert.Equal(t, map[string]any{"name": "subset", "cases": 4.0, "violations": 2.0}, rec["relation"])
}

type kindName string

func (k kindName) String() string { return string(k) }

func TestSessionGroup(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", Output: &buf})
	defer Configure(Options{})

	Session(kindName("colorImage")).Debug("transformation applied", "op", "fliph")
	assert.Contains(t, buf.String(), "session.domain=colorImage")
	assert.Contains(t, buf.String(), "op=fliph")
}
