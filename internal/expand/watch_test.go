package expand

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("struct S;\n"), 0o644))

	w, err := New(nil).NewWatcher([]string{path}, 10*time.Millisecond)
	require.NoError(t, err)

	var returned atomic.Bool
	var late atomic.Int32
	results := make(chan *Result, 16)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(res *Result) {
			if returned.Load() {
				late.Add(1)
			}
			select {
			case results <- res:
			default:
			}
		})
	}()

	src := "type X<'a, I> = Gat!(<I as LendingIterator>::Item<'a>);\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	select {
	case res := <-results:
		assert.False(t, res.Failed())
		assert.Equal(t, 1, res.Expanded)
		assert.Contains(t, res.Output, "<I as LendingIterator__Item<'a>>::T")
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered after the file changed")
	}

	// Leave a debounce timer pending while Run shuts down.
	require.NoError(t, os.WriteFile(path, []byte(src+"\n"), 0o644))
	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	returned.Store(true)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, late.Load(), "fn called after Run returned")
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := New(nil).NewWatcher([]string{filepath.Join(t.TempDir(), "gone", "lib.rs")}, time.Millisecond)
	assert.Error(t, err)
}
