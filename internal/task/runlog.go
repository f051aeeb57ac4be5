package task

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunLog is an optional file-backed debug log for one run. The TUI owns the
// terminal while tasks execute, so diagnostics go to a file instead of
// stderr. A nil *RunLog is a valid no-op logger.
type RunLog struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewRunLog creates a log file named after a fresh run ID inside dir,
// creating the directory if needed.
func NewRunLog(dir string) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.log", uuid.New()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &RunLog{file: f, path: path}
	l.Printf("=== run started at %s ===", time.Now().Format(time.RFC3339))
	return l, nil
}

// Path returns the log file's location, or "" for a no-op logger.
func (l *RunLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Printf writes a timestamped record. Safe on a nil receiver and from
// multiple goroutines.
func (l *RunLog) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "[%s] %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// Close flushes and closes the underlying file.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}
