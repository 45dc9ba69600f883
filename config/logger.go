package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// LoggingConfig selects console verbosity and an optional log file.
type LoggingConfig struct {
	Level       string `yaml:"level"` // none, normal or debug
	Destination string `yaml:"destination,omitempty"`
}

// Prepare returns configured zap logger and a function releasing its resources.
func (conf *LoggingConfig) Prepare() (*zap.Logger, func() error, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(os.Stderr) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	consoleEncoder := zapcore.NewConsoleEncoder(ec)

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	var cores []zapcore.Core
	switch conf.Level {
	case "debug", "normal", "":
		minLevel := zapcore.InfoLevel
		if conf.Level == "debug" {
			minLevel = zapcore.DebugLevel
		}
		// stdout below error, stderr for errors
		cores = append(cores,
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout),
				zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
					return minLevel <= lvl && lvl < zapcore.ErrorLevel
				})),
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), highPriority))
	case "none":
	default:
		return nil, nil, fmt.Errorf("unknown log level %q (expected none, normal or debug)", conf.Level)
	}

	closer := func() error { return nil }
	if conf.Destination != "" {
		f, err := os.OpenFile(conf.Destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.Destination, err)
		}
		fileEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.Lock(f), zap.NewAtomicLevelAt(zap.DebugLevel)))
		closer = f.Close
	}
	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	return zap.New(zapcore.NewTee(cores...)), closer, nil
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
