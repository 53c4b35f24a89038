package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"browsd/internal/config"
	"browsd/internal/watch"
	"browsd/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func sampleTree(t *testing.T) string {
	t.Helper()
	return testutils.MakeTree(t, map[string]string{
		"a.txt":     "hello",
		".hidden":   "",
		"notes.swp": "",
		"sub/":      "",
	})
}

func TestLsAppliesFilters(t *testing.T) {
	dir := sampleTree(t)
	cfgPath := writeConfig(t, "browser:\n  ignore: [\"*.swp\"]\n")

	out, err := executeCommand(t, "--config", cfgPath, "ls", "--sort", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "sub/")
	assert.NotContains(t, out, ".hidden")
	assert.NotContains(t, out, "notes.swp")
	assert.Less(t, strings.Index(out, "a.txt"), strings.Index(out, "sub/"))
}

func TestLsAllShowsHidden(t *testing.T) {
	dir := sampleTree(t)

	out, err := executeCommand(t, "ls", "-a", dir)
	require.NoError(t, err)
	assert.Contains(t, out, ".hidden")
	assert.Contains(t, out, "notes.swp")
}

func TestLsLongShowsContentType(t *testing.T) {
	dir := sampleTree(t)

	out, err := executeCommand(t, "ls", "-l", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "text/plain")
	assert.Contains(t, out, "inode/directory")
}

func TestLsMissingDirectory(t *testing.T) {
	_, err := executeCommand(t, "ls", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found")
}

func TestExplicitConfigMustBeValid(t *testing.T) {
	cfgPath := writeConfig(t, "watch:\n  backend: bogus\n")

	_, err := executeCommand(t, "--config", cfgPath, "ls", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestResolveDir(t *testing.T) {
	cfg = config.New()
	dir := t.TempDir()

	got, err := resolveDir([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	cfg.Browser.StartDir = dir
	got, err = resolveDir(nil)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	cfg.Browser.StartDir = ""
	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = resolveDir(nil)
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestFormatChange(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	dir := "/data"

	assert.Equal(t, "03:04:05 create  sub/",
		formatChange(dir, at, watch.CreateChange(watch.Directory, "/data/sub")))
	assert.Equal(t, "03:04:05 rename  a.txt -> b.txt",
		formatChange(dir, at, watch.RenameChange("/data/a.txt", "/data/b.txt")))
	assert.Equal(t, "03:04:05 remove  /elsewhere/x",
		formatChange(dir, at, watch.RemoveChange("/elsewhere/x")))
	assert.Contains(t, formatChange(dir, at, watch.UnknownChange()), "re-listing")
}

func TestWatchSessionSnapshot(t *testing.T) {
	cfg = config.New()
	dir := sampleTree(t)

	b, w, err := openBrowser([]string{dir})
	require.NoError(t, err)
	defer b.Close()

	buf := new(bytes.Buffer)
	s := &watchSession{id: "test-session", browser: b, out: buf}
	mon := watch.NewMonitor(w, 10*time.Millisecond)

	s.handle(watch.RemoveChange(filepath.Join(dir, "a.txt")))
	assert.Contains(t, buf.String(), "remove")

	state := s.snapshot(mon, w)()
	assert.Equal(t, dir, state.Directory)
	assert.Equal(t, "test-session", state.Session)
	// notes.swp is visible: the default config ignores nothing
	names := make([]string, 0, len(state.Entries))
	for _, e := range state.Entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"notes.swp", "sub"}, names)
}
