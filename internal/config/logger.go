package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from the log section.
func (c Config) NewLogger() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Log.Level != "" {
		if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", c.Log.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if c.Log.Encoding != "json" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeCaller = nil
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	zc.DisableStacktrace = level > zapcore.DebugLevel

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}
