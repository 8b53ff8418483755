package infrastructures

import (
	"github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger for the process.
func SetupLogger(config *AppConfig) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.LOG_LEVEL)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", config.LOG_LEVEL)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
