// Package logging builds the application logger. Everything of interest
// goes to a log file under the data directory so crash reports can embed
// it; the console only sees warnings unless verbose is set.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a SugaredLogger writing to <logDir>/mmm.log and stderr.
// The returned sync function flushes buffered entries and should be
// deferred by the caller.
func New(logDir string, verbose bool) (*zap.SugaredLogger, func(), error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:          "T",
		LevelKey:         "L",
		NameKey:          "N",
		MessageKey:       "M",
		StacktraceKey:    "S",
		FunctionKey:      zapcore.OmitKey,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		ConsoleSeparator: "  ",
	}

	logPath := filepath.Join(logDir, "mmm.log")
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	consoleLevel := zap.WarnLevel
	if verbose {
		consoleLevel = zap.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(logFile), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stderr), consoleLevel),
	)

	logger := zap.New(core)
	sync := func() { _ = logger.Sync() }
	return logger.Sugar(), sync, nil
}

// WriteCrashReport dumps a panic value and stack trace to a timestamped
// file under logDir and returns its path.
func WriteCrashReport(logDir string, panicValue any, stack []byte) (string, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("creating log dir: %w", err)
	}

	name := fmt.Sprintf("crash-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(logDir, name)

	content := fmt.Sprintf("panic: %v\n\n%s", panicValue, stack)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing crash report: %w", err)
	}
	return path, nil
}
