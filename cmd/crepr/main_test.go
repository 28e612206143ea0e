package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/crepr/am"
)

func TestUnreadableConfigIsReported(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)
	am.Reset()
	t.Cleanup(am.Reset)

	require.NoError(t, os.WriteFile(filepath.Join(dir, am.ProjectConfigName), []byte("[repr\n"), 0o644))

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "crepr ")
	assert.Contains(t, stderr.String(), "Skipping unreadable config file")
	assert.Contains(t, stderr.String(), am.ProjectConfigName)
}
