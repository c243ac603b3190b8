package observability

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevelEnv names the environment variable holding the log level
const LogLevelEnv = "RPCDOC_LOG_LEVEL"

// DefaultLogLevel is used when LogLevelEnv is unset
const DefaultLogLevel = "warn"

// NewLogger creates a text logger writing to output. An unparsable level
// falls back to info.
func NewLogger(level string, output io.Writer) *logrus.Logger {
	if output == nil {
		output = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// LoggerFromEnv creates a logger using the level from LogLevelEnv
func LoggerFromEnv(output io.Writer) *logrus.Logger {
	level := os.Getenv(LogLevelEnv)
	if level == "" {
		level = DefaultLogLevel
	}
	return NewLogger(level, output)
}

// Discard returns a logger that drops everything, for tests and library
// callers that did not supply one.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
