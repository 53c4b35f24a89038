package browse

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"browsd/internal/errors"
	"browsd/internal/watch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWatcher queues changes handed to it and can be told to refuse a path.
type fakeWatcher struct {
	watching string
	refuse   map[string]error
	queue    []watch.Change
	closed   bool
}

func (w *fakeWatcher) Watch(path string) error {
	if err, ok := w.refuse[path]; ok {
		return err
	}
	w.watching = path
	return nil
}

func (w *fakeWatcher) LookForChanges() (watch.Change, bool) {
	if len(w.queue) == 0 {
		return watch.Change{}, false
	}
	c := w.queue[0]
	w.queue = w.queue[1:]
	return c, true
}

func (w *fakeWatcher) Close() error {
	w.closed = true
	return nil
}

// countingLister wraps ListChildren and counts how often it runs.
type countingLister struct {
	calls int
}

func (l *countingLister) list(dir string, f *Filter) ([]Entry, error) {
	l.calls++
	return ListChildren(dir, f)
}

func newTestBrowser(t *testing.T, opts ...Option) (*Browser, *fakeWatcher, *countingLister, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	w := &fakeWatcher{watching: dir, refuse: map[string]error{}}
	l := &countingLister{}
	b, err := New(dir, w, append([]Option{WithLister(l.list)}, opts...)...)
	require.NoError(t, err)
	return b, w, l, dir
}

func TestNewListsOnce(t *testing.T) {
	b, _, l, dir := newTestBrowser(t)
	assert.Equal(t, 1, l.calls)
	assert.Equal(t, dir, b.Dir())
	assert.Equal(t, 2, b.View().Len())
}

func TestNewFailsOnMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), &fakeWatcher{})
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestRetargetSuccessRelistsOnce(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("i"), 0644))

	require.NoError(t, b.Retarget(sub))
	assert.Equal(t, sub, b.Dir())
	assert.Equal(t, sub, w.watching)
	assert.Equal(t, 2, l.calls)
	require.Equal(t, 1, b.View().Len())
	e, _ := b.View().At(0)
	assert.Equal(t, "inner.txt", e.Name())

	require.NoError(t, b.Up())
	assert.Equal(t, dir, b.Dir())
	assert.Equal(t, 3, l.calls)
}

func TestRetargetWatchFailureLeavesStateUnchanged(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)
	sub := filepath.Join(dir, "sub")
	w.refuse[sub] = errors.NewWatchError(sub, errors.WatchIO, fmt.Errorf("permission denied"))
	b.View().Select(filepath.Join(dir, "a.txt"))
	before := b.Entries()

	err := b.Retarget(sub)
	require.Error(t, err)
	assert.True(t, errors.IsWatchError(err))
	assert.Equal(t, dir, b.Dir())
	assert.Equal(t, dir, w.watching)
	assert.Equal(t, before, b.Entries())
	assert.Equal(t, 1, l.calls)
}

func TestRetargetRejectsNonDirectories(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)

	err := b.Retarget(filepath.Join(dir, "a.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsNotDirectory(err))

	err = b.Retarget(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))

	assert.Equal(t, dir, w.watching)
	assert.Equal(t, 1, l.calls)
}

func TestTickAppliesChanges(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)
	w.queue = []watch.Change{
		watch.CreateChange(watch.File, filepath.Join(dir, "new.txt")),
		watch.RenameChange(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")),
		watch.ModifyChange(filepath.Join(dir, "b.txt")),
		watch.RemoveChange(filepath.Join(dir, "sub")),
	}

	res := b.Tick()
	assert.Equal(t, TickResult{Applied: 4}, res)
	assert.True(t, res.Changed())
	assert.Equal(t, []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "new.txt")}, paths(b.View()))
	assert.Equal(t, 1, l.calls)

	assert.False(t, b.Tick().Changed())
}

func TestTickUnknownFlushesAndRelists(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)
	w.queue = []watch.Change{
		watch.CreateChange(watch.File, filepath.Join(dir, "ghost")),
		watch.UnknownChange(),
		watch.CreateChange(watch.File, filepath.Join(dir, "stale")),
		watch.UnknownChange(),
	}

	res := b.Tick()
	assert.True(t, res.Rescanned)
	assert.Equal(t, 2, res.Applied)
	assert.Empty(t, w.queue)
	assert.Equal(t, 2, l.calls)
	assert.Equal(t, -1, b.View().Index(filepath.Join(dir, "ghost")))
	assert.Equal(t, -1, b.View().Index(filepath.Join(dir, "stale")))
}

func TestTickRespectsBudget(t *testing.T) {
	b, w, _, dir := newTestBrowser(t, WithMaxChangesPerTick(2))
	for i := 0; i < 5; i++ {
		w.queue = append(w.queue, watch.CreateChange(watch.File, filepath.Join(dir, fmt.Sprintf("f%d", i))))
	}

	assert.Equal(t, 2, b.Tick().Applied)
	assert.Equal(t, 2, b.Tick().Applied)
	assert.Equal(t, 1, b.Tick().Applied)
	assert.Equal(t, 0, b.Tick().Applied)
	assert.Equal(t, 7, b.View().Len())
}

func TestTickDropsChangesOutsideCurrentDir(t *testing.T) {
	b, w, _, dir := newTestBrowser(t, WithMaxChangesPerTick(0))
	w.queue = []watch.Change{
		watch.CreateChange(watch.File, "/somewhere/else/x"),
		watch.RemoveChange(filepath.Join(dir, "sub", "deep")),
	}
	b.Tick()
	assert.Equal(t, 2, b.View().Len())
}

func TestTickHonoursFilter(t *testing.T) {
	f, err := NewFilter(false, []string{"*.swp"})
	require.NoError(t, err)
	b, w, _, dir := newTestBrowser(t, WithFilter(f))
	visible := filepath.Join(dir, "visible.txt")
	require.NoError(t, os.WriteFile(visible, []byte("v"), 0644))

	w.queue = []watch.Change{
		watch.CreateChange(watch.File, filepath.Join(dir, ".hidden")),
		watch.CreateChange(watch.File, filepath.Join(dir, "a.txt.swp")),
		// hidden -> visible shows up as a creation
		watch.RenameChange(filepath.Join(dir, ".visible.txt"), visible),
		// visible -> ignored disappears
		watch.RenameChange(filepath.Join(dir, "a.txt"), filepath.Join(dir, "a.txt.swp")),
	}
	b.Tick()

	assert.Equal(t, []string{filepath.Join(dir, "sub"), visible}, sortedPaths(b.View()))
}

func TestApplySingleChange(t *testing.T) {
	b, w, l, dir := newTestBrowser(t)

	assert.False(t, b.Apply(watch.CreateChange(watch.File, filepath.Join(dir, "c.txt"))))
	assert.Equal(t, 3, b.View().Len())

	w.queue = []watch.Change{watch.RemoveChange(filepath.Join(dir, "a.txt"))}
	assert.True(t, b.Apply(watch.UnknownChange()))
	assert.Empty(t, w.queue)
	assert.Equal(t, 2, l.calls)
	// c.txt never existed on disk
	assert.Equal(t, 2, b.View().Len())
}

func TestRefreshKeepsSelection(t *testing.T) {
	b, _, _, dir := newTestBrowser(t)
	a := filepath.Join(dir, "a.txt")
	require.True(t, b.View().Select(a))

	b.Refresh()
	sel, ok := b.View().Selected()
	require.True(t, ok)
	assert.Equal(t, a, sel.Path)
}

func TestCloseClosesWatcher(t *testing.T) {
	b, w, _, _ := newTestBrowser(t)
	require.NoError(t, b.Close())
	assert.True(t, w.closed)
}

func TestBrowserWithRealWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.NewFileSystemWatcher(dir)
	require.NoError(t, err)
	b, err := New(dir, w)
	require.NoError(t, err)
	defer b.Close()

	created := filepath.Join(dir, "created.txt")
	require.NoError(t, os.WriteFile(created, []byte("x"), 0644))

	assert.Eventually(t, func() bool {
		b.Tick()
		return b.View().Index(created) >= 0
	}, 5*time.Second, 20*time.Millisecond)
}

func sortedPaths(v *View) []string {
	out := paths(v)
	sort.Strings(out)
	return out
}
