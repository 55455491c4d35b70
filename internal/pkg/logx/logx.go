// Package logx wraps a process-wide zap SugaredLogger.
package logx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// Usable before Init so early failures and tests still log somewhere.
	logger, _ := zap.NewDevelopment()
	sugar = logger.Sugar()
}

// Init configures the global logger. level is a zap level string
// ("debug", "info", ...); format is "json" or "console".
func Init(level, format string) error {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = lvl

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	sugar = logger.Sugar()
	return nil
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	_ = sugar.Sync()
}

func Debugf(template string, args ...interface{}) { sugar.Debugf(template, args...) }
func Info(args ...interface{})                    { sugar.Info(args...) }
func Infof(template string, args ...interface{})  { sugar.Infof(template, args...) }
func Warnf(template string, args ...interface{})  { sugar.Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { sugar.Errorf(template, args...) }
func Fatalf(template string, args ...interface{}) { sugar.Fatalf(template, args...) }
