// Package logging builds the zap logger shared by the pipeline components.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level    string
	Encoding string
	Debug    bool
}

// New builds a logger writing to stderr. Debug forces the debug level and development
// options (caller, stack traces on warnings) regardless of Level.
func New(c Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(c.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s' (%w)", c.Level, err)
	}

	encoding := strings.ToLower(strings.TrimSpace(c.Encoding))
	switch encoding {
	case "":
		encoding = "console"
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid log encoding '%s' - expected 'console' or 'json'", c.Encoding)
	}

	config := zap.NewProductionConfig()
	if c.Debug {
		config = zap.NewDevelopmentConfig()
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	config.Level = level
	config.Encoding = encoding
	config.Sampling = nil
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return config.Build()
}
