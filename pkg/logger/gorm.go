package logger

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's SQL logging through logrus.
type GormLogger struct {
	log           *logrus.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a gorm logger. Queries slower than slow are logged at warn.
func NewGormLogger(l *logrus.Logger, slow time.Duration) *GormLogger {
	level := gormlogger.Warn
	if l.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return &GormLogger{log: l, level: level, slowThreshold: slow}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.WithContext(ctx).Errorf(msg, args...)
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := g.log.WithContext(ctx).WithFields(logrus.Fields{
		"elapsed_ms": elapsed.Milliseconds(),
		"rows":       rows,
		"sql":        sql,
	})

	switch {
	// not-found is a normal outcome for repositories
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Error("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		entry.Warn("slow query")
	case g.level >= gormlogger.Info:
		entry.Debug("query")
	}
}
