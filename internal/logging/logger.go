package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger appends timestamped lines to <outputRoot>/logs/formforge.log so a
// run can be reconstructed after the terminal session is gone. Every line
// carries a short run ID; interleaved runs against the same output root stay
// distinguishable.
type Logger struct {
	file  *os.File
	runID string
	now   func() time.Time
}

// New creates (or reuses) the log file under the output root.
func New(outputRoot string) (*Logger, error) {
	logDir := filepath.Join(outputRoot, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "formforge.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{
		file:  f,
		runID: uuid.NewString()[:8],
		now:   time.Now,
	}, nil
}

// RunID identifies this process's lines in the shared log file.
func (l *Logger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := l.now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] [%s] %s\n", timestamp, l.runID, line)
}
