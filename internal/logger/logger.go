// Package logger provides a minimal leveled logger for the dataroom tool.
//
// Log lines go to stderr so command output on stdout stays clean and
// scriptable. The level is set once from configuration at startup.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel = LevelInfo
	out          = stdlog.New(os.Stderr, "", 0)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SetLevel sets the minimum level that is emitted. Unknown names are ignored
// and the current level is kept.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel = LevelDebug
	case "INFO":
		currentLevel = LevelInfo
	case "WARN":
		currentLevel = LevelWarn
	case "ERROR":
		currentLevel = LevelError
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	out = stdlog.New(w, "", 0)
}

func emit(level Level, format string, v ...any) {
	if level < currentLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	out.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...any) {
	emit(LevelDebug, format, v...)
}

func Info(format string, v ...any) {
	emit(LevelInfo, format, v...)
}

func Warn(format string, v ...any) {
	emit(LevelWarn, format, v...)
}

func Error(format string, v ...any) {
	emit(LevelError, format, v...)
}
