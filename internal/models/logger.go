package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// logger routes gorm logs through zerolog.
type logger struct {
	Logger        zerolog.Logger
	SlowThreshold time.Duration
}

func (l *logger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *logger) Info(ctx context.Context, s string, args ...any) {
	l.Logger.Info().Ctx(ctx).Msgf(s, args...)
}

func (l *logger) Warn(ctx context.Context, s string, args ...any) {
	l.Logger.Warn().Ctx(ctx).Msgf(s, args...)
}

func (l *logger) Error(ctx context.Context, s string, args ...any) {
	l.Logger.Error().Ctx(ctx).Msgf(s, args...)
}

func (l *logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	// Not found and constraint errors are expected, they are
	// translated and returned to the caller
	var ledgerErr *Error
	if err != nil && !errors.Is(err, ErrResourceNotFound) && !errors.As(err, &ledgerErr) {
		l.Logger.Error().Ctx(ctx).Err(err).Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("[GORM] query error")
		return
	}

	if l.SlowThreshold > 0 && elapsed > l.SlowThreshold {
		l.Logger.Warn().Ctx(ctx).Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("[GORM] slow query")
		return
	}

	l.Logger.Debug().Ctx(ctx).Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("[GORM] query")
}
