package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogError_SkipsCancellation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	LogError(logger, context.Canceled, "stopped")
	LogError(logger, errors.New("boom"), "failed to run batch", zap.String("batch", "b1"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed to run batch", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestJSONPatch(t *testing.T) {
	patch, err := JSONPatch(map[string]string{"code": "0"}, map[string]string{"code": "1"})
	require.NoError(t, err)
	assert.Contains(t, patch, `"replace"`)
	assert.Contains(t, patch, `/code`)

	patch, err = JSONPatch(map[string]string{"a": "b"}, map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Empty(t, patch)
}

func TestExpectActualTable(t *testing.T) {
	out := ExpectActualTable(map[string]string{"code": "0"}, map[string]string{"code": "-1", "extra": "x"})
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "-1")
	assert.Contains(t, out, "extra")
}

func TestKebabToCamel(t *testing.T) {
	assert.Equal(t, "apiTimeout", kebabToCamel("api-timeout"))
	assert.Equal(t, "debug", kebabToCamel("debug"))
}
