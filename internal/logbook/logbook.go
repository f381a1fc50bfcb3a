// internal/logbook/logbook.go
//
// The logbook is the pipeline journal: every promotion step a user runs is
// appended to .airul/logs/journey.log so the status screen can show what
// happened last, across runs.

package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a journal entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook appends entries to a text file. It satisfies progress.Reporter.
type Logbook struct {
	path  string
	run   string
	clock func() time.Time
	mu    sync.Mutex
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithRun tags every entry with a run identifier.
func WithRun(id string) Option {
	return func(l *Logbook) {
		l.run = strings.TrimSpace(id)
	}
}

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New creates a logbook writing to path, creating its directory.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	book := &Logbook{path: path, clock: time.Now}
	for _, opt := range opts {
		opt(book)
	}
	return book, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes one entry. Multi-line messages are folded onto one line.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	message = strings.Join(strings.Fields(message), " ")
	l.mu.Lock()
	defer l.mu.Unlock()
	prefix := l.clock().UTC().Format(time.RFC3339) + " " + fmt.Sprintf("%-5s", string(level))
	if l.run != "" {
		prefix += " [" + l.run + "]"
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(prefix + " " + message + "\n")
}

// Tail returns up to maxLines of the most recent entries and the total number
// of entries in the file.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	total := len(lines)
	if maxLines <= 0 || total == 0 {
		return nil, total
	}
	if total > maxLines {
		lines = lines[total-maxLines:]
	}
	return lines, total
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
