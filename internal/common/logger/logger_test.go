package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "smartmatch-rank-listings"})

	log.Debug("hidden", nil)
	log.Info("ranked", map[string]interface{}{"candidates": 3})
	log.With(map[string]interface{}{"jobKey": int64(7)}).Error("failed", map[string]interface{}{
		"error": errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "ranked", entries[0].Message)
	assert.Equal(t, "smartmatch-rank-listings", entries[0].ContextMap()["taskType"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["candidates"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, 7, entries[1].ContextMap()["jobKey"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestBuild_InvalidOutput(t *testing.T) {
	_, err := Build(Options{Level: "info", Format: "json", Output: "/nonexistent-dir/x/y.log"})
	assert.Error(t, err)

	l := New("info", "console")
	assert.NotNil(t, l)
}
