package logbook

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/airul/internal/progress"
)

var _ progress.Reporter = (*Logbook)(nil)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "journey.log"))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	assert.Equal(t, 5, total)
	require.Len(t, lines, 3)
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		assert.Contains(t, lines[idx], want)
	}
}

func TestEntriesCarryRunAndFoldLines(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	book, err := New(filepath.Join(t.TempDir(), "journey.log"), WithRun("run-1"), WithClock(clock))
	require.NoError(t, err)
	book.Warn("skipping %s:\n  bad yaml", "100-a.yaml")

	lines, total := book.Tail(10)
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"2025-01-02T03:04:05Z WARN  [run-1] skipping 100-a.yaml: bad yaml"}, lines)
}

func TestNilAndMissingAreEmpty(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	lines, total := book.Tail(3)
	assert.Nil(t, lines)
	assert.Zero(t, total)

	fresh, err := New(filepath.Join(t.TempDir(), "journey.log"))
	require.NoError(t, err)
	lines, total = fresh.Tail(3)
	assert.Nil(t, lines)
	assert.Zero(t, total)
}
