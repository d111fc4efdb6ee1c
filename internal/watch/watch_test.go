package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) reload(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, debounce time.Duration) (string, *recorder) {
	t.Helper()
	dir := t.TempDir()
	w, err := New(zaptest.NewLogger(t), debounce, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, rec.reload) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, w.Close())
	})
	return dir, rec
}

func TestWatcher_ReloadsChangedLevel(t *testing.T) {
	dir, rec := startWatcher(t, 20*time.Millisecond)

	path := filepath.Join(dir, "lvl_1.smclvl")
	require.NoError(t, os.WriteFile(path, []byte("<level/>"), 0644))

	require.Eventually(t, func() bool {
		return len(rec.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, rec.seen()[0])
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir, rec := startWatcher(t, 0)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	level := filepath.Join(dir, "lvl_2.xml")
	require.NoError(t, os.WriteFile(level, []byte("<level/>"), 0644))

	require.Eventually(t, func() bool {
		return len(rec.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	for _, p := range rec.seen() {
		assert.Equal(t, level, p)
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	dir, rec := startWatcher(t, 200*time.Millisecond)

	path := filepath.Join(dir, "lvl_3.smclvl")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<level/>"), 0644))
	}

	require.Eventually(t, func() bool {
		return len(rec.seen()) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, rec.seen(), 1)
}

func TestNew_RejectsNegativeDebounce(t *testing.T) {
	_, err := New(zaptest.NewLogger(t), -time.Second, t.TempDir())
	require.Error(t, err)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(zaptest.NewLogger(t), 0, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRun_StopsOnClose(t *testing.T) {
	w, err := New(zaptest.NewLogger(t), 0, t.TempDir())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background(), (&recorder{}).reload) }()
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestRelevant(t *testing.T) {
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write level", fsnotify.Event{Name: "a.smclvl", Op: fsnotify.Write}, true},
		{"create xml", fsnotify.Event{Name: "a.XML", Op: fsnotify.Create}, true},
		{"remove level", fsnotify.Event{Name: "a.smclvl", Op: fsnotify.Remove}, true},
		{"chmod level", fsnotify.Event{Name: "a.smclvl", Op: fsnotify.Chmod}, false},
		{"write yaml", fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, relevant(tc.ev))
		})
	}
}
