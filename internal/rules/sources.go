package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kingrea/airul/internal/progress"
)

// ignoredDirs are never descended into while expanding patterns.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	".git":         true,
}

// ResolveSources expands configured source patterns into file paths. A
// pattern naming an existing file is used as-is; anything else is matched
// as a doublestar glob relative to baseDir, dot files included. Matches are
// project-relative, absolute patterns naming a file stay absolute.
// Duplicates are dropped, first occurrence wins.
func ResolveSources(baseDir string, patterns []string, reporter progress.Reporter) ([]string, error) {
	reporter = progress.OrNop(reporter)
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.ToSlash(filepath.Clean(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	var candidates []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if isFile(sourcePath(baseDir, pattern)) {
			add(pattern)
			continue
		}
		if !hasMeta(pattern) {
			reporter.Warn("Source not found: %s", pattern)
			continue
		}
		rel, ok := relativePattern(baseDir, pattern)
		if !ok || !doublestar.ValidatePattern(rel) {
			reporter.Warn("Invalid source pattern: %s", pattern)
			continue
		}
		if candidates == nil {
			files, err := walkFiles(baseDir)
			if err != nil {
				return nil, err
			}
			candidates = files
		}
		matched := 0
		for _, file := range candidates {
			if ok, _ := doublestar.Match(rel, file); ok {
				add(file)
				matched++
			}
		}
		if matched == 0 {
			reporter.Info("No files match %s", pattern)
		}
	}
	return out, nil
}

// sourcePath resolves a resolved source against baseDir unless it is
// already absolute.
func sourcePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// relativePattern rewrites an absolute pattern inside baseDir to a
// slash-separated relative one. Patterns outside baseDir are rejected.
func relativePattern(baseDir, pattern string) (string, bool) {
	if !filepath.IsAbs(pattern) {
		return filepath.ToSlash(pattern), true
	}
	rel, err := filepath.Rel(baseDir, pattern)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func walkFiles(baseDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if p != baseDir && ignoredDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(baseDir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rules: walk %s: %w", baseDir, err)
	}
	return files, nil
}
