package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance
var Logger *zap.Logger

// Setup builds the process logger and installs it as the zap global. Debug
// switches to the human readable development encoder at debug level.
func Setup(debug bool, appName, appVersion string) error {
	var err error
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		// stdout carries the result line; keep info chatter off the terminal
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	Logger, err = cfg.Build()
	if err != nil {
		Logger = zap.NewNop()
		return err
	}

	zap.ReplaceGlobals(Logger)
	return nil
}
