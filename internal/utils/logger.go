package utils

import (
	"fmt"
	"log"
	"strings"
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	CurrentLevel LogLevel = LevelWarn
	// ShowRaylibInfo passes raylib's info messages through below CurrentLevel.
	ShowRaylibInfo bool
	ShowDebugUI    bool
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a level name (case-insensitive) to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", name)
}

func logMessage(level LogLevel, format string, v ...interface{}) {
	if level < CurrentLevel {
		return
	}
	printMessage(level, format, v...)
}

func printMessage(level LogLevel, format string, v ...interface{}) {
	const (
		colorReset  = "\033[0m"
		colorCyan   = "\033[36m"
		colorBlue   = "\033[34m"
		colorYellow = "\033[33m"
		colorRed    = "\033[31m"
	)

	var colorCode string
	switch level {
	case LevelDebug:
		colorCode = colorCyan
	case LevelInfo:
		colorCode = colorBlue
	case LevelWarn:
		colorCode = colorYellow
	case LevelError:
		colorCode = colorRed
	}

	prefix := fmt.Sprintf("%s[%s]%s ", colorCode, level.String(), colorReset)
	log.Printf(prefix+format, v...)
}

func Info(format string, v ...interface{})  { logMessage(LevelInfo, format, v...) }
func Debug(format string, v ...interface{}) { logMessage(LevelDebug, format, v...) }
func Warn(format string, v ...interface{})  { logMessage(LevelWarn, format, v...) }
func Error(format string, v ...interface{}) { logMessage(LevelError, format, v...) }

// raylibLevel maps a raylib trace log level to ours. ok is false for levels
// that are never forwarded.
func raylibLevel(level int) (LogLevel, bool) {
	switch level {
	case 1, 2: // LOG_TRACE, LOG_DEBUG
		return LevelDebug, true
	case 3: // LOG_INFO
		return LevelInfo, true
	case 4: // LOG_WARNING
		return LevelWarn, true
	case 5, 6: // LOG_ERROR, LOG_FATAL
		return LevelError, true
	}
	return LevelDebug, false
}

func RaylibLogCallback(level int, text string) {
	const colorMagenta = "\033[35m"
	const colorReset = "\033[0m"
	lvl, ok := raylibLevel(level)
	if !ok {
		return
	}
	formattedText := colorMagenta + "[RAYLIB] " + colorReset + text
	if lvl == LevelInfo && ShowRaylibInfo {
		printMessage(lvl, "%s", formattedText)
		return
	}
	logMessage(lvl, "%s", formattedText)
}
