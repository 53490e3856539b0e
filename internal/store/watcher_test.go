package store

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.jsonl")

	var calls atomic.Int32
	fw, err := NewFileWatcher(path, func() { calls.Add(1) }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestFileWatcher_CoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.jsonl")

	var calls atomic.Int32
	fw, err := NewFileWatcher(path, func() { calls.Add(1) }, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFileWatcher_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet")
	fw, err := NewFileWatcher(filepath.Join(dir, "watchlist.jsonl"), func() {})
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	assert.DirExists(t, dir)
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "watchlist.jsonl"), func() {})
	require.NoError(t, err)
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Start())
	require.NoError(t, fw.Start())
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
}
