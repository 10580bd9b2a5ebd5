package logging

import (
	"os"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"delicious-moments/pkg/common/config"
)

func levelFromString(l string) (zapcore.Level, hlog.Level) {
	switch strings.ToLower(l) {
	case "debug":
		return zapcore.DebugLevel, hlog.LevelDebug
	case "warn", "warning":
		return zapcore.WarnLevel, hlog.LevelWarn
	case "error":
		return zapcore.ErrorLevel, hlog.LevelError
	default:
		return zapcore.InfoLevel, hlog.LevelInfo
	}
}

// Init 用 zap 替换 hlog 默认实现，返回的 Logger 需在退出前 Sync
func Init(cfg config.LogConfig) *hertzzap.Logger {
	zapLevel, hlogLevel := levelFromString(cfg.Level)

	var encoder zapcore.Encoder
	if cfg.Dev {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	logger := hertzzap.NewLogger(
		hertzzap.WithCoreEnc(encoder),
		hertzzap.WithCoreWs(zapcore.AddSync(os.Stdout)),
		hertzzap.WithCoreLevel(zap.NewAtomicLevelAt(zapLevel)),
		hertzzap.WithZapOptions(zap.AddCaller(), zap.AddCallerSkip(3), zap.AddStacktrace(zapcore.ErrorLevel)),
	)
	logger.SetLevel(hlogLevel)
	hlog.SetLogger(logger)
	return logger
}
