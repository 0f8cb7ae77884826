package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// GormLogger routes GORM query logs to zerolog.
type GormLogger struct {
	lgr           zerolog.Logger
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

// NewGormLogger returns a GORM logger writing to lgr. Only errors and slow
// queries are logged at the default level.
func NewGormLogger(lgr zerolog.Logger) *GormLogger {
	return &GormLogger{
		lgr:           lgr,
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormlogger.Warn,
	}
}

// LogMode returns a copy of the logger at level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

// Info logs a GORM message at info level.
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		l.lgr.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs a GORM message at warn level.
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		l.lgr.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs a GORM message at error level.
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		l.lgr.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed and slow queries, and every query at info level.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error:
		sql, rows := fc()
		l.lgr.Error().Err(err).
			Str("file", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query failed")
	case elapsed > l.SlowThreshold && l.SlowThreshold != 0 && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		l.lgr.Warn().
			Str("file", utils.FileWithLineNum()).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow query")
	case l.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		l.lgr.Debug().
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query")
	}
}
