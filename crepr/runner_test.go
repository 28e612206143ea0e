package crepr

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/crepr/errors"
)

func newTestRunner(mode Mode) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Runner{Out: &out, Err: &errOut, Mode: mode, Options: Options{Splat: "{}"}}, &out, &errOut
}

func TestRunner_LoadFailuresDoNotStopTheBatch(t *testing.T) {
	r, out, errOut := newTestRunner(ModeChanges)

	summary, err := r.Add(context.Background(), []string{
		"testdata/missing.py",
		"testdata/broken.py",
		"testdata/kw_only.py",
	})
	require.NoError(t, err)

	assert.Equal(t, Summary{Files: 3, Loaded: 1, Failed: 2, Changes: 1}, summary)
	assert.Contains(t, out.String(), "__repr__ generated for class: KwOnly")
	assert.Contains(t, errOut.String(), "testdata/missing.py: file not found")
	assert.Contains(t, errOut.String(), "testdata/broken.py: syntax error")
	assert.Contains(t, errOut.String(), "  line ")
}

func TestRunner_AllFilesFailToLoad(t *testing.T) {
	r, out, _ := newTestRunner(ModeChanges)

	_, err := r.Add(context.Background(), []string{"testdata/missing.py", "testdata"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoModules))
	assert.Empty(t, out.String())
}

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRunner_RejectedFilesWarn(t *testing.T) {
	var errOut bytes.Buffer
	r := &Runner{Out: failingWriter{}, Err: &errOut, Mode: ModePrint, Options: Options{Splat: "{}"}}

	summary, err := r.Add(context.Background(), []string{"testdata/kw_only.py", "testdata/pos_args.py"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFailedFiles))
	assert.Equal(t, 1, summary.Rejected)
	assert.Contains(t, errOut.String(), "disk full")
	assert.Contains(t, errOut.String(), "1 of 2 files left unchanged\n")
}

func TestRunner_NothingToDoIsSuccess(t *testing.T) {
	r, out, errOut := newTestRunner(ModeDiff)

	summary, err := r.Add(context.Background(), []string{"testdata/pos_args.py", "testdata/imported.py"})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Changes)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestRunner_InlineAddAndRemove(t *testing.T) {
	dir := t.TempDir()
	var files []string
	originals := make(map[string]string)
	for _, name := range []string{"kw_only.py", "splat_kwargs.py", "two_classes.py"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		files = append(files, path)
		originals[path] = string(data)
	}

	r, out, _ := newTestRunner(ModeInline)
	summary, err := r.Add(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Changes)
	assert.Empty(t, out.String())

	// With ignore-existing a second add has nothing to do
	r.Options.IgnoreExisting = true
	summary, err = r.Add(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Changes)

	summary, err = r.Remove(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Changes)

	for _, path := range files {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, originals[path], string(data), path)
	}
}

func TestRunner_ReportMissing(t *testing.T) {
	r, out, _ := newTestRunner(ModeChanges)

	missing, err := r.ReportMissing(context.Background(),
		[]string{"testdata/existing_repr.py", "testdata/two_classes.py", "testdata/missing.py"}, false)
	require.NoError(t, err)
	require.Len(t, missing, 3)
	assert.Equal(t, strings.Join([]string{
		"testdata/existing_repr.py: NoRepr",
		"testdata/two_classes.py: First",
		"testdata/two_classes.py: Second",
	}, "\n")+"\n", out.String())
}

func TestRunner_ReportMissingJSON(t *testing.T) {
	t.Setenv("CREPR_JSON_COMPACT", "")
	r, out, _ := newTestRunner(ModeChanges)

	_, err := r.ReportMissing(context.Background(), []string{"testdata/existing_repr.py"}, true)
	require.NoError(t, err)

	var decoded []MissingClass
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []MissingClass{{File: "testdata/existing_repr.py", Class: "NoRepr", Line: 19}}, decoded)

	out.Reset()
	_, err = r.ReportMissing(context.Background(), []string{"testdata/kw_only.py"}, true)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out.String())
}

func TestRunner_Cancelled(t *testing.T) {
	r, _, _ := newTestRunner(ModeChanges)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Add(ctx, []string{"testdata/kw_only.py"})
	assert.ErrorIs(t, err, context.Canceled)
}

// syncBuffer guards a buffer written by the watch loop and read by the test
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatcher_ReportsAgainOnWrite(t *testing.T) {
	path := fixture(t, "kw_only.py")
	out := &syncBuffer{}
	r := &Runner{Out: out, Err: &syncBuffer{}, Mode: ModeChanges}

	w, err := NewWatcher(r, []string{path}, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), ": KwOnly") == 1
	}, 2*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\n\nclass Later:\n    def __init__(self, z):\n        self.z = z\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), ": Later")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
