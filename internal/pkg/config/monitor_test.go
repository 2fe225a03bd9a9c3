package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gethiox/sentral/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainLogs(t *testing.T) {
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case <-logger.Messages:
			case <-done:
				return
			}
		}
	}()
}

func TestWatchProfile(t *testing.T) {
	drainLogs(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o666))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	change, err := WatchProfile(ctx, path)
	require.NoError(t, err)

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("{}\n"), 0o666))
	require.NoError(t, os.WriteFile(path, []byte("gyroscope:\n  rate: 100\n"), 0o666))

	select {
	case v := <-change:
		assert.True(t, v)
	case <-time.After(5 * time.Second):
		t.Fatal("profile change not detected")
	}

	cancel()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-change:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("change channel not closed after cancel")
		}
	}
}

func TestWatchProfileMissingDirectory(t *testing.T) {
	_, err := WatchProfile(context.Background(), filepath.Join(t.TempDir(), "missing", "profile.yaml"))
	assert.Error(t, err)
}
