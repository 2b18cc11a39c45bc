package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	// The TUI owns the terminal, so logging is silent until a file is
	// configured.
	Logger.SetOutput(io.Discard)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// The level is owned by the config layer; Configure applies it. The
	// CINEADMIN_LOG_LEVEL env override arrives through the same path.
	Logger.SetLevel(logrus.InfoLevel)
}

// Configure points the logger at a file and sets the level. An empty file
// path keeps output discarded.
func Configure(level string, file string) error {
	if level != "" {
		parsedLevel, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			return err
		}
		Logger.SetLevel(parsedLevel)
	}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		Logger.SetOutput(f)
	}
	return nil
}

// WithComponent adds a component field to the logger
func WithComponent(component string) *logrus.Entry {
	return Logger.WithField("component", component)
}
