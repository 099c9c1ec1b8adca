// Provides a generic interface for logging
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	Log Logger
)

type LogLevel string

const (
	ERROR   LogLevel = "error"
	WARNING LogLevel = "warning"
	INFO    LogLevel = "info"
)

type Logger interface {
	WriteInfof(msg string, args ...interface{})
	WriteErrorf(msg string, args ...interface{})
	WriteWarnf(msg string, args ...interface{})
	Writer() io.Writer
}

type LogrusLogger struct {
	logger *logrus.Logger
}

func (l *LogrusLogger) WriteInfof(msg string, args ...interface{}) {
	l.logger.Infof(msg, args...)
}

func (l *LogrusLogger) WriteErrorf(msg string, args ...interface{}) {
	l.logger.Errorf(msg, args...)
}

func (l *LogrusLogger) WriteWarnf(msg string, args ...interface{}) {
	l.logger.Warnf(msg, args...)
}

func (l *LogrusLogger) Writer() io.Writer {
	return l.logger.Writer()
}

func NewLogrusLogger(level LogLevel) *LogrusLogger {

	var logrusLevel logrus.Level

	switch level {
	case ERROR:
		logrusLevel = logrus.ErrorLevel
	case WARNING:
		logrusLevel = logrus.WarnLevel
	case INFO:
		logrusLevel = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrusLevel)

	return &LogrusLogger{logger: logger}
}

func init() {
	SetLogger(NewLogrusLogger(INFO))
}

func SetLogger(l Logger) {
	Log = l
}
