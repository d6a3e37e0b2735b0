// Package logger holds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It writes to stderr at info level until Init
// is called.
var Log = logrus.New()

// Init configures Log. level is a logrus level name ("debug", "info",
// "warn", ...); an unknown name falls back to info. format is "json" or
// "text". A nil out keeps the current output.
func Init(level, format string, out io.Writer) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}
	if out != nil {
		Log.SetOutput(out)
	}
	return Log
}

// OpenFile opens (creating if needed) the log file used by the terminal
// game, under $XDG_STATE_HOME/tilegrid or ~/.local/state/tilegrid.
func OpenFile() (*os.File, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "tilegrid.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func stateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "tilegrid"), nil
}
