// Package progress defines the observer the pipeline reports through.
package progress

import (
	"fmt"
	"sync"
)

// Reporter receives human-readable progress and per-file warnings.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// Nop discards everything.
var Nop Reporter = nop{}

type nop struct{}

func (nop) Info(string, ...any) {}
func (nop) Warn(string, ...any) {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop
	}
	return r
}

// Multi fans every call out to each non-nil reporter.
func Multi(reporters ...Reporter) Reporter {
	var out multi
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return Nop
	}
	return out
}

type multi []Reporter

func (m multi) Info(format string, args ...any) {
	for _, r := range m {
		r.Info(format, args...)
	}
}

func (m multi) Warn(format string, args ...any) {
	for _, r := range m {
		r.Warn(format, args...)
	}
}

// Recorder keeps every message in memory. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

// Info records an informational message.
func (r *Recorder) Info(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

// Warn records a warning.
func (r *Recorder) Warn(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, fmt.Sprintf(format, args...))
}

// Infos returns a copy of the recorded informational messages.
func (r *Recorder) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.infos...)
}

// Warnings returns a copy of the recorded warnings.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.warns...)
}
