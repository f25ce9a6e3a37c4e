package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger: JSON to stdout, level from LOG_LEVEL.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if lvl, err := logrus.ParseLevel(strings.ToLower(raw)); err == nil {
			l.SetLevel(lvl)
			return l
		}
	}
	l.SetLevel(logrus.InfoLevel)
	return l
}
