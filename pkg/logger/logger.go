// Package logger builds the process-wide log destination: a size-rotated
// file mirrored to the console. Callers receive a *logrus.Logger and pass
// entries into components explicitly; there is no package-level instance.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level, destination file and rotation bounds.
type Config struct {
	// Level is one of debug, info, warn, error. Unparseable values fall
	// back to info.
	Level string

	// File is the log file path. Empty means console only.
	File string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept around.
	MaxBackups int
}

// DefaultConfig mirrors the rotation bounds the bot has always used:
// a 10 MB file with five backups.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		File:       "bot.log",
		MaxSizeMB:  10,
		MaxBackups: 5,
	}
}

// New creates a logger writing to the rotating file and stdout.
func New(cfg Config) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	writers := []io.Writer{os.Stdout}

	if cfg.File != "" {
		dir := filepath.Dir(cfg.File)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}

	log.SetOutput(io.MultiWriter(writers...))
	return log, nil
}
