package logger

import (
	"time"

	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

type gormWriter struct {
	logger Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.Warnf(format, args...)
}

// NewGormLogger reports failed statements and slow queries through l. Lookups
// returning no record are an expected outcome and are never reported. SQL
// traces are only written at the DEBUG level.
func NewGormLogger(l Logger, level int) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: l}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
	})
}

func gormLevel(level int) gormlogger.LogLevel {
	switch level {
	case DEBUG:
		return gormlogger.Info
	case INFO, WARNING:
		return gormlogger.Warn
	case ERROR:
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
