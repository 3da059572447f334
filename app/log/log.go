package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "blogicum"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and CLI subcommands never call Setup, so make sure Log is usable
// without it.
func init() {
	Setup("info", false)
}

// Setup (re)builds the global logger. Production output is JSON, development
// output stays human readable on stderr.
func Setup(level string, production bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if production {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{
		"service":        serviceName,
		"is_development": !production,
	})
}

// Logger exposes the underlying logger, e.g. for swapping the output in tests.
func Logger() *logrus.Logger {
	return logger
}
