package middleware

import "github.com/sirupsen/logrus"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// FieldLogger логгер со структурированными полями (*logger.Logger)
type FieldLogger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}
