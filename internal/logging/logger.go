package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes and returns a new zap logger. Each level gets its own
// rotating JSON file; the console gets a human-readable colored core.
func Init(projectRoot string) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	logDir := filepath.Join(projectRoot, "logs")

	levels := []zapcore.Level{
		zapcore.DebugLevel,
		zapcore.InfoLevel,
		zapcore.WarnLevel,
		zapcore.ErrorLevel,
	}

	cores := make([]zapcore.Core, 0, len(levels)+1)
	for _, level := range levels {
		fileCore, err := newFileCore(logDir, level, encoderConfig)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}
	cores = append(cores, newConsoleCore())

	// A log entry is offered to every core; each decides via its
	// LevelEnabler whether to write it.
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}

// newFileCore creates a core that writes a single log level to a rotating file.
func newFileCore(logDir string, level zapcore.Level, encoderConfig zapcore.EncoderConfig) (zapcore.Core, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	// One file per level per day, named like '2025-07-30-info.log'
	fileName := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", time.Now().Format("2006-01-02"), level.String()))

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	})

	// Only the exact level lands in this core's file.
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == level
	})

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writer,
		levelEnabler,
	), nil
}

// newConsoleCore creates a core that writes to the console.
func newConsoleCore() zapcore.Core {
	levelEnabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.DebugLevel
	})

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig),
		zapcore.AddSync(os.Stdout),
		levelEnabler,
	)
}
