// Package logging provides the process-wide structured logger.
package logging

import "go.uber.org/zap"

var Logger *zap.Logger

// Init sets up the process-wide logger. dev selects a human-readable
// development encoder instead of the default JSON production encoder.
func Init(dev bool) error {
	var err error
	if dev {
		Logger, err = zap.NewDevelopment()
	} else {
		Logger, err = zap.NewProduction()
	}
	return err
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}
