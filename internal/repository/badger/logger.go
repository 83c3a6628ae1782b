package badger

import (
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapLogger routes badger's internal logging through zap.
type zapLogger struct{ s *zap.SugaredLogger }

var _ badger.Logger = zapLogger{}

// NewLogger adapts log for badger.Options.WithLogger.
func NewLogger(log *zap.Logger) badger.Logger {
	return zapLogger{s: log.Named("badger").WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l zapLogger) Errorf(f string, v ...any)   { l.s.Errorf(f, v...) }
func (l zapLogger) Warningf(f string, v ...any) { l.s.Warnf(f, v...) }
func (l zapLogger) Infof(f string, v ...any)    { l.s.Infof(f, v...) }
func (l zapLogger) Debugf(f string, v ...any)   { l.s.Debugf(f, v...) }
