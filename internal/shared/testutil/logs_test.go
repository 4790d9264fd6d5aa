package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorderKeepsDerivedAttrs(t *testing.T) {
	logger, rec := NewRecordingLogger(nil)

	logger.With(slog.String("component", "loader")).Info("sheets decoded", slog.Int("grades", 3))
	logger.WithGroup("req").Warn("slow", slog.String("path", "/x"))

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "loader", entries[0].Attrs["component"])
	assert.Equal(t, int64(3), entries[0].Attrs["grades"])
	assert.Equal(t, "/x", entries[1].Attrs["req.path"])
}

func TestLogRecorderFilters(t *testing.T) {
	logger, rec := NewRecordingLogger(t)

	logger.Debug("d")
	logger.Error("refresh failed")

	assert.Len(t, rec.AtLevel(slog.LevelError), 1)
	e := RequireLogged(t, rec, slog.LevelError, "refresh")
	assert.Equal(t, "refresh failed", e.Message)

	_, ok := rec.Find("missing")
	assert.False(t, ok)

	rec.Reset()
	assert.Empty(t, rec.Entries())
}
