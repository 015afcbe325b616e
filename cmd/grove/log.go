package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFileEnv names the environment variable with a file to also log to.
const LogFileEnv = "GROVE_LOG_FILE"

/*
newLogger returns a logger that writes JSON entries to stderr, and to the
file named by LogFileEnv when set, at Info level or at Debug level when
verbose.
*/
func newLogger(verbose bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)}
	if logFile := os.Getenv(LogFileEnv); logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %v", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %v", err)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), lvl))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
