package logger

import "go.uber.org/zap"

var logger *zap.SugaredLogger

type Logger struct {
	*zap.SugaredLogger
}

// GetLogger returns the process-wide sugared logger, creating it on first use.
func GetLogger() Logger {
	if logger == nil {
		zaplog, _ := zap.NewDevelopment()
		logger = zaplog.Sugar()
	}

	return Logger{SugaredLogger: logger}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return Logger{SugaredLogger: zap.NewNop().Sugar()}
}
