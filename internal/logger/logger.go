package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"labor-odds/internal/config"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures level and formatter from the application config.
func Init(cfg *config.AppConfig) {
	InitWithOutput(cfg, os.Stderr)
}

// InitWithOutput is Init with an explicit destination. Logs go to stderr by
// default so reports written to stdout stay clean.
func InitWithOutput(cfg *config.AppConfig, out io.Writer) {
	Log.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		Log.SetLevel(logrus.InfoLevel)
	} else {
		Log.SetLevel(level)
	}

	switch strings.ToLower(cfg.Environment) {
	case "production", "staging":
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
}

func Get() *logrus.Logger {
	return Log
}
