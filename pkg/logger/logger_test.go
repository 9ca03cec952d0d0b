package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" Warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatText, ParseFormat("TEXT"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
}

func TestNew_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: slog.LevelInfo, Format: FormatJSON})

	log.Debug("hidden")
	log.Info("enroll handled", StudentID(1), CourseCode("CSC101"), Outcome("success"), Err(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "enroll handled", entry["msg"])
	assert.Equal(t, float64(1), entry["student_id"])
	assert.Equal(t, "CSC101", entry["course_code"])
	assert.Equal(t, "success", entry["outcome"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: slog.LevelDebug, Format: FormatText})

	log.Debug("seeded", Component("seed"))
	assert.Contains(t, buf.String(), "component=seed")
}

func TestContextRoundTrip(t *testing.T) {
	log := Discard()
	ctx := WithContext(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
