// Package logging builds the zap loggers used by the stream processor and
// the command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level, encoding and sink of a logger.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// Format is "json", "logfmt" or "console". Defaults to console.
	Format string

	// Writer receives the encoded records. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a logger with the provided configuration.
func New(c Config) (*zap.Logger, error) {
	var level zapcore.Level
	if c.Level == "" {
		c.Level = "info"
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", c.Level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch c.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(encoderConfig)
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("unknown log format %q", c.Format)
	}

	if c.Writer == nil {
		c.Writer = os.Stderr
	}
	var sw zapcore.WriteSyncer
	switch t := c.Writer.(type) {
	case *os.File:
		sw = zapcore.Lock(t)
	case zapcore.WriteSyncer:
		sw = t
	default:
		sw = zapcore.AddSync(c.Writer)
	}

	return zap.New(zapcore.NewCore(encoder, sw, level)), nil
}
