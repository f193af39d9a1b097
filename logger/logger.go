package logger

import (
	"encoding/json"
	"io"
	"log"
	"maps"
	"os"
	"strings"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger writes one JSON object per line
type Logger struct {
	level  Level
	logger *log.Logger
	base   map[string]any
}

// logEntry represents a structured log entry
type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// New creates a logger writing to output, or stdout when output is nil
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	return &Logger{
		level:  parseLevel(level),
		logger: log.New(output, "", 0),
	}
}

// With returns a child logger that adds fields to every entry.
// Per-call fields win on key collisions.
func (l *Logger) With(fields map[string]any) *Logger {
	base := make(map[string]any, len(l.base)+len(fields))
	maps.Copy(base, l.base)
	maps.Copy(base, fields)

	return &Logger{
		level:  l.level,
		logger: l.logger,
		base:   base,
	}
}

// parseLevel falls back to INFO for unknown names
func parseLevel(level string) Level {
	upper := strings.ToUpper(strings.TrimSpace(level))
	for lvl, name := range levelNames {
		if name == upper {
			return lvl
		}
	}
	return INFO
}

func (l *Logger) writeLogEntry(level Level, message string, fields map[string]any) {
	if l.level > level {
		return
	}

	if len(l.base) > 0 {
		merged := make(map[string]any, len(l.base)+len(fields))
		maps.Copy(merged, l.base)
		maps.Copy(merged, fields)
		fields = merged
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     levelNames[level],
		Message:   message,
		Fields:    fields,
	}

	if data, err := json.Marshal(entry); err == nil {
		l.logger.Println(string(data))
	} else {
		// Fallback to simple format if JSON fails
		l.logger.Printf("[%s] %s", entry.Level, message)
	}
}

func first(fields []map[string]any) map[string]any {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.writeLogEntry(DEBUG, message, first(fields))
}

func (l *Logger) Info(message string, fields ...map[string]any) {
	l.writeLogEntry(INFO, message, first(fields))
}

func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.writeLogEntry(WARN, message, first(fields))
}

func (l *Logger) Error(message string, fields ...map[string]any) {
	l.writeLogEntry(ERROR, message, first(fields))
}

// Todo logs a record-level event
func (l *Logger) Todo(todoID int64, message string, fields ...map[string]any) {
	allFields := map[string]any{
		"todo_id": todoID,
		"type":    "todo",
	}
	if f := first(fields); f != nil {
		maps.Copy(allFields, f)
	}

	l.writeLogEntry(INFO, message, allFields)
}

// HTTP logs a finished request. 5xx responses are logged at ERROR, 4xx at WARN.
func (l *Logger) HTTP(method, path string, statusCode int, duration time.Duration, fields ...map[string]any) {
	allFields := map[string]any{
		"http_method": method,
		"http_path":   path,
		"http_status": statusCode,
		"duration_ns": duration.Nanoseconds(),
		"type":        "http_request",
	}
	if f := first(fields); f != nil {
		maps.Copy(allFields, f)
	}

	level := INFO
	switch {
	case statusCode >= 500:
		level = ERROR
	case statusCode >= 400:
		level = WARN
	}
	l.writeLogEntry(level, "HTTP request completed", allFields)
}
