package internal

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

const maxLogs = 500

// MARK: NewLogger
// Creates a structured logger backed by log/slog, formatting as JSON when
// jsonLogs is set and as human-readable text otherwise.
func NewLogger(jsonLogs bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		logs:   make([]LogEntry, 0, maxLogs),
	}
}

// MARK: addToMemory
func (l *Logger) addToMemory(level, msg string, context map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     strings.ToUpper(level),
		Message:   msg,
		Context:   context,
	}

	if len(l.logs) >= maxLogs {
		l.logs = l.logs[1:]
	}
	l.logs = append(l.logs, entry)
}

// MARK: convertArgsToContext
func convertArgsToContext(args []any) map[string]interface{} {
	if len(args) == 0 {
		return nil
	}

	context := make(map[string]interface{})
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			if key, ok := args[i].(string); ok {
				context[key] = args[i+1]
			}
		}
	}

	if len(context) == 0 {
		return nil
	}
	return context
}

// MARK: GetLogs
// Returns a copy of recently emitted log entries, optionally filtered by
// level.
func (l *Logger) GetLogs(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level == "" {
		return append([]LogEntry(nil), l.logs...)
	}

	filtered := make([]LogEntry, 0)
	for _, entry := range l.logs {
		if strings.EqualFold(entry.Level, level) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// MARK: Debug
func (l *Logger) Debug(msg string, args ...any) {
	l.addToMemory("DEBUG", msg, convertArgsToContext(args))
	l.Logger.Debug(msg, args...)
}

// MARK: Info
func (l *Logger) Info(msg string, args ...any) {
	l.addToMemory("INFO", msg, convertArgsToContext(args))
	l.Logger.Info(msg, args...)
}

// MARK: Warn
func (l *Logger) Warn(msg string, args ...any) {
	l.addToMemory("WARN", msg, convertArgsToContext(args))
	l.Logger.Warn(msg, args...)
}

// MARK: Error
func (l *Logger) Error(msg string, args ...any) {
	l.addToMemory("ERROR", msg, convertArgsToContext(args))
	l.Logger.Error(msg, args...)
}
