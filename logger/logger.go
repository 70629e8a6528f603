package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	appLogger *logrus.Logger
	once      sync.Once
)

// GetLogger returns the shared application logger, initializing it on first use.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		appLogger = logrus.New()
		appLogger.SetOutput(os.Stdout)

		if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
			appLogger.SetLevel(lvl)
		} else {
			appLogger.SetLevel(logrus.InfoLevel)
		}

		if os.Getenv("LOG_FORMAT") == "json" {
			appLogger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		} else {
			appLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
	})
	return appLogger
}

// WithComponent returns an entry tagged with the given component name.
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}
