package docxtiptap

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

type Fields map[string]interface{}

// Logger is a small leveled logger. Derived loggers created with WithField
// share the parent's writer and lock.
type Logger struct {
	writer io.Writer
	level  LogLevel
	fields Fields
	mu     *sync.Mutex
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
	globalLoggerMu   sync.RWMutex
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		globalLoggerMu.Lock()
		globalLogger = NewLogger(os.Stderr, ParseLogLevel(config.LogLevel))
		globalLoggerMu.Unlock()
	})
}

// ParseLogLevel maps a config string to a level, defaulting to info.
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LogDebug
	case "info":
		return LogInfo
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	case "off":
		return LogOff
	default:
		return LogInfo
	}
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		writer: w,
		level:  level,
		fields: make(Fields),
		mu:     &sync.Mutex{},
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		writer: l.writer,
		level:  l.level,
		fields: merged,
		mu:     l.mu,
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.level == LogOff {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	var line strings.Builder
	fmt.Fprintf(&line, "%s [%s] %s", timestamp, level.String(), message)

	// sorted so output is stable for tests and grep
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&line, " %s=%v", k, l.fields[k])
		}
	}

	fmt.Fprintln(l.writer, line.String())
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// Global logging functions
func SetLogger(logger *Logger) {
	initGlobalLogger()
	globalLoggerMu.Lock()
	globalLogger = logger
	globalLoggerMu.Unlock()
}

func GetLogger() *Logger {
	initGlobalLogger()
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// UpdateLoggerFromConfig updates the global logger based on the current global configuration
func UpdateLoggerFromConfig() {
	GetLogger().SetLevel(ParseLogLevel(GetGlobalConfig().LogLevel))
}
