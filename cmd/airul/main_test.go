package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestInitWritesConfigOnce(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created .airul.json")
	assert.FileExists(t, filepath.Join(dir, ".airul.json"))
	assert.DirExists(t, filepath.Join(dir, "docs", "ideas"))

	out, _, err = execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestDraftApproveBuild(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, dir, "init")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "ideas", "todo.md"),
		[]byte("build me a todo app with user login and a postgres database"), 0o644))

	out, _, err := execute(t, dir, "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "Created: 100-core-features.yaml")
	assert.Contains(t, out, "airul approve")

	_, _, err = execute(t, dir, "approve")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "docs", "rules-draft", "100-core-features.yaml"))

	out, _, err = execute(t, dir, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 MDC rules")
	assert.FileExists(t, filepath.Join(dir, ".cursor", "rules", "100-core-features.mdc"))

	out, _, err = execute(t, dir, "status", "--log", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: Has rule drafts")
	assert.Contains(t, out, "Journal (3 of")
}

func TestDraftSuggestsKnownIdeas(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, dir, "init")
	require.NoError(t, err)
	for _, name := range []string{"todo-app.md", "billing.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "ideas", name), []byte("idea"), 0o644))
	}

	_, _, err = execute(t, dir, "draft")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick one")

	_, _, err = execute(t, dir, "draft", "todo.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean todo-app.md")
}

func TestApproveUnknownDraft(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, dir, "approve", "100-nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `draft "100-nope.yaml" not found`)

	_, _, err = execute(t, dir, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to promote")
}

func TestGenerateWritesContextFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Demo\nhello"), 0o644))
	out, _, err := execute(t, dir, "generate", "--mdc")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated context from 1 sources")
	assert.FileExists(t, filepath.Join(dir, ".windsurfrules"))
	assert.FileExists(t, filepath.Join(dir, ".cursorrules"))
	assert.FileExists(t, filepath.Join(dir, ".cursor", "rules", "README.mdc"))
}

func TestSuggestRanksClosestNames(t *testing.T) {
	assert.Equal(t, []string{"200-deployment.yaml"}, suggest("deploy", []string{"100-frontend.yaml", "200-deployment.yaml"}))
	assert.Empty(t, suggest("zzz", []string{"100-frontend.yaml"}))
}

func TestConsoleConcurrentWrites(t *testing.T) {
	var out, errOut bytes.Buffer
	c := newConsole(&out, &errOut)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Info("rule %d written", i)
		}()
		go func() {
			defer wg.Done()
			c.Warn("rule %d skipped", i)
		}()
	}
	wg.Wait()

	infos := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	warns := strings.Split(strings.TrimSuffix(errOut.String(), "\n"), "\n")
	assert.Len(t, infos, 50)
	assert.Len(t, warns, 50)
	for _, line := range warns {
		assert.True(t, strings.HasPrefix(line, "Warning: rule "), line)
	}
}
