// SPDX-License-Identifier: GPL-3.0-or-later

// Package logger provides structured logging on top of log/slog with a
// colorized handler on terminals and a plain text handler otherwise.
package logger

import (
	"fmt"
	"log/slog"
)

// Logger wraps slog with the formatted convenience methods the rest of the
// codebase logs through. A nil *Logger is valid and discards everything.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger, picking the handler from the execution environment.
func New() *Logger {
	if isTerminal {
		return &Logger{sl: slog.New(withCallDepth(1, newTerminalHandler()))}
	}
	return &Logger{sl: slog.New(withCallDepth(1, newTextHandler()))}
}

// With returns a Logger that includes the given attributes in every record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.sl == nil {
		return l
	}
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Errorf(format string, a ...any)   { l.log(slog.LevelError, format, a...) }
func (l *Logger) Warningf(format string, a ...any) { l.log(slog.LevelWarn, format, a...) }
func (l *Logger) Infof(format string, a ...any)    { l.log(slog.LevelInfo, format, a...) }
func (l *Logger) Debugf(format string, a ...any)   { l.log(slog.LevelDebug, format, a...) }

func (l *Logger) Error(a ...any)   { l.log(slog.LevelError, fmt.Sprint(a...)) }
func (l *Logger) Warning(a ...any) { l.log(slog.LevelWarn, fmt.Sprint(a...)) }
func (l *Logger) Info(a ...any)    { l.log(slog.LevelInfo, fmt.Sprint(a...)) }
func (l *Logger) Debug(a ...any)   { l.log(slog.LevelDebug, fmt.Sprint(a...)) }

func (l *Logger) log(level slog.Level, format string, a ...any) {
	if l == nil || l.sl == nil {
		return
	}
	if len(a) == 0 {
		l.sl.Log(nil, level, format) //nolint:staticcheck
		return
	}
	l.sl.Log(nil, level, fmt.Sprintf(format, a...)) //nolint:staticcheck
}
