package logger

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFilePath is the path to the log file, relative to the working directory (project root when run via go run ./cmd/playground).
const LogFilePath = "logs/playground.log"

// maxLines is the number of lines kept in memory for the debug panel.
const maxLines = 200

// Setup sets the slog level and, if toFile is set, sends the default logger's output
// to a rotating log file at path.
func Setup(level slog.Level, toFile bool, path string) error {
	slog.SetLogLoggerLevel(level)
	if !toFile {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    20, // megabytes
		MaxBackups: 3,
	})
	return nil
}

// Logger stores recent lines of text (e.g. console input and reported errors) in memory
// and appends them to a writer.
type Logger struct {
	mu    sync.Mutex
	lines []string
	out   io.Writer
	now   func() time.Time
}

// New returns a Logger writing to a rotating file at LogFilePath.
func New() *Logger {
	dir := filepath.Dir(LogFilePath)
	_ = os.MkdirAll(dir, 0755)
	return NewWithWriter(&lumberjack.Logger{
		Filename:   LogFilePath,
		MaxSize:    5, // megabytes
		MaxBackups: 1,
	})
}

// NewWithWriter returns a Logger which appends to w. w may be nil.
func NewWithWriter(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{out: w, now: time.Now}
}

// Log appends a line to the logger and to its writer. Each entry is prefixed with [timestamp] using computer time.
func (l *Logger) Log(line string) {
	ts := l.now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + line

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, stamped)
	if n := len(l.lines); n > maxLines {
		l.lines = l.lines[n-maxLines:]
	}
	_, _ = io.WriteString(l.out, stamped+"\n")
}

// Report records a non-fatal error. It implements the diagnostic sink of the hit sound.
func (l *Logger) Report(err error, msg string) {
	slog.Error(msg, "error", err)
	l.Log(fmt.Sprintf("%s: %v", msg, err))
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
