package logging

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"go.uber.org/zap/zapcore"

	"delicious-moments/pkg/common/config"
)

func TestLevelFromString(t *testing.T) {
	cases := map[string]struct {
		zap  zapcore.Level
		hlog hlog.Level
	}{
		"debug":   {zapcore.DebugLevel, hlog.LevelDebug},
		"WARN":    {zapcore.WarnLevel, hlog.LevelWarn},
		"warning": {zapcore.WarnLevel, hlog.LevelWarn},
		"error":   {zapcore.ErrorLevel, hlog.LevelError},
		"":        {zapcore.InfoLevel, hlog.LevelInfo},
		"verbose": {zapcore.InfoLevel, hlog.LevelInfo},
	}
	for in, want := range cases {
		z, h := levelFromString(in)
		if z != want.zap || h != want.hlog {
			t.Fatalf("levelFromString(%q) = %v/%v, want %v/%v", in, z, h, want.zap, want.hlog)
		}
	}
}

func TestInitReplacesDefaultLogger(t *testing.T) {
	prev := hlog.DefaultLogger()
	t.Cleanup(func() { hlog.SetLogger(prev) })

	logger := Init(config.LogConfig{Level: "debug", Dev: true})
	if hlog.DefaultLogger() != logger {
		t.Fatalf("hlog default logger should be the zap logger")
	}
	hlog.Debugf("logging initialised for %s", t.Name())
	logger.Sync()
}
