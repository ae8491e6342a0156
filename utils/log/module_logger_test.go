package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestModuleLoggerFactory_DebugSelection(t *testing.T) {
	factory := NewModuleLoggerFactory(zap.NewNop(), false, map[string]bool{ModuleExecutor: true})

	assert.True(t, factory.IsDebugEnabled(ModuleExecutor))
	assert.False(t, factory.IsDebugEnabled(ModuleServe))

	global := NewModuleLoggerFactory(zap.NewNop(), true, nil)
	assert.True(t, global.IsDebugEnabled("anything"))
}

func TestModuleLoggerFactory_GetLogger_FiltersDebugWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	factory := NewModuleLoggerFactory(zap.New(core), false, map[string]bool{ModuleBatch: true})

	factory.GetLogger(ModuleServe).Debug("hidden serve debug")
	factory.GetLogger(ModuleServe).Info("visible serve info")
	factory.GetLogger(ModuleBatch).Debug("visible batch debug")

	out := buf.String()
	assert.NotContains(t, out, "hidden serve debug")
	assert.Contains(t, out, "visible serve info")
	assert.Contains(t, out, "visible batch debug")
}
