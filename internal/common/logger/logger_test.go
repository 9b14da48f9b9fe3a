package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "sync-alerts"})

	log.Info("alerts synced", map[string]interface{}{"companyId": "company-001", "error": errors.New("boom")})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "sync-alerts", ctx["taskType"])
		assert.Equal(t, "company-001", ctx["companyId"])
		assert.Equal(t, "boom", ctx["error"])
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewWithOptions_Service(t *testing.T) {
	l := NewWithOptions(Options{Level: "info", Format: "json", Service: "compliance-workers"})
	assert.NotNil(t, l)
}
