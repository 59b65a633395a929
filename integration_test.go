//go:build integration

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "syl %s\n%s", strings.Join(args, " "), out.String())
	return out.String()
}

func TestEndToEnd(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	dataDir := t.TempDir()
	t.Setenv("SYL_DATA_DIR", dataDir)
	t.Setenv("HOME", t.TempDir())

	t.Run("Create", func(t *testing.T) {
		out := run(t, "new", "psy101", "--title", "Intro to Psychology", "--weeks", "2")
		assert.Contains(t, out, "psy101")
		assert.FileExists(t, filepath.Join(dataDir, "psy101.syllabus.yaml"))
	})

	t.Run("List", func(t *testing.T) {
		out := run(t, "list")
		assert.Contains(t, out, "Intro to Psychology")
	})

	t.Run("SelectAndShow", func(t *testing.T) {
		run(t, "select", "psy101", "--all")
		out := run(t, "show", "psy101")
		assert.Contains(t, out, "[x] Week 1/")
	})

	t.Run("Search", func(t *testing.T) {
		run(t, "reindex")
		out := run(t, "search", "Office", "Hours", "--syllabus", "psy101")
		assert.Contains(t, out, "Office Hours")
	})

	t.Run("Export", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "psy101.zip")
		out := run(t, "export", "psy101", "--selected", "-o", target)
		assert.Contains(t, out, "Exported")
		assert.FileExists(t, target)
	})

	t.Run("Version", func(t *testing.T) {
		out := run(t, "version", "--json")
		assert.Contains(t, out, `"version"`)
	})
}
