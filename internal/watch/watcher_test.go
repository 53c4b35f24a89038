package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemWatcherWithFakeBackend(t *testing.T) {
	b := newFakeBackend()
	var woken int32
	w, err := NewFileSystemWatcher("/d",
		WithBackendFactory(b.factory()),
		WithOnChange(func() { atomic.AddInt32(&woken, 1) }),
		WithKindProbe(fixedProbe(map[string]EntryKind{"/d/new": Directory})),
	)
	require.NoError(t, err)
	assert.Equal(t, "/d", w.Current())

	b.deliver(RawEvent{Kind: RawCreateAny, Paths: []string{"/d/new"}})
	b.deliver(RawEvent{Kind: RawRenameFrom, Paths: []string{"/d/a"}})
	b.deliver(RawEvent{Kind: RawRenameTo, Paths: []string{"/d/b"}})
	b.deliver(RawEvent{Kind: RawAccess, Paths: []string{"/d/b"}})
	b.deliver(RawEvent{Kind: RawRemove, Paths: []string{"/d/b"}})

	assert.Equal(t, 3, w.Pending())
	assert.Equal(t, int32(3), atomic.LoadInt32(&woken), "one wake-up per event that produced changes")

	var got []Change
	for {
		c, ok := w.LookForChanges()
		if !ok {
			break
		}
		got = append(got, c)
	}
	assert.Equal(t, []Change{
		CreateChange(Directory, "/d/new"),
		RenameChange("/d/a", "/d/b"),
		RemoveChange("/d/b"),
	}, got)
}

func TestFileSystemWatcherBackendErrorIsDropped(t *testing.T) {
	b := newFakeBackend()
	w, err := NewFileSystemWatcher("/d", WithBackendFactory(b.factory()))
	require.NoError(t, err)

	b.onError(fmt.Errorf("decode failed"))
	_, ok := w.LookForChanges()
	assert.False(t, ok)
}

func TestFileSystemWatcherInitialWatchFails(t *testing.T) {
	b := newFakeBackend()
	b.failAdd["/nope"] = os.ErrNotExist
	_, err := NewFileSystemWatcher("/nope", WithBackendFactory(b.factory()))
	require.Error(t, err)
	assert.True(t, b.closed)
}

func TestFileSystemWatcherWatchFailureKeepsTarget(t *testing.T) {
	b := newFakeBackend()
	w, err := NewFileSystemWatcher("/d", WithBackendFactory(b.factory()))
	require.NoError(t, err)

	b.failAdd["/bad"] = fmt.Errorf("no")
	require.Error(t, w.Watch("/bad"))
	assert.Equal(t, "/d", w.Current())

	require.NoError(t, w.Close())
	assert.Error(t, w.Watch("/d"), "closed watcher refuses to retarget")
}

func TestTranslateFsnotify(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want []RawKind
	}{
		{fsnotify.Create, []RawKind{RawCreateAny}},
		{fsnotify.Write, []RawKind{RawModifyData}},
		{fsnotify.Chmod, []RawKind{RawModifyMetadata}},
		{fsnotify.Remove, []RawKind{RawRemove}},
		{fsnotify.Rename, []RawKind{RawRemove}},
		{fsnotify.Create | fsnotify.Write, []RawKind{RawCreateAny, RawModifyData}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			raws := translateFsnotify(fsnotify.Event{Name: "/d/a", Op: tt.op})
			var kinds []RawKind
			for _, r := range raws {
				assert.Equal(t, []string{"/d/a"}, r.Paths)
				kinds = append(kinds, r.Kind)
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func waitForChange(t *testing.T, w *FileSystemWatcher, match func(Change) bool) Change {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if c, ok := w.LookForChanges(); ok {
			if match(c) {
				return c
			}
			continue
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for change")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestFileSystemWatcherFsnotify(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewFileSystemWatcher(tempDir, WithBackend(BackendFsnotify))
	require.NoError(t, err, "New watcher creation failed")
	defer w.Close()

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	testFilePath := filepath.Join(tempDir, "testfile.txt")
	require.NoError(t, os.WriteFile(testFilePath, nil, 0644))

	c := waitForChange(t, w, func(c Change) bool { return c.Op == Create })
	assert.Equal(t, CreateChange(File, testFilePath), c)

	subDir := filepath.Join(tempDir, "sub")
	require.NoError(t, os.Mkdir(subDir, 0755))
	c = waitForChange(t, w, func(c Change) bool { return c.Op == Create && c.Path == subDir })
	assert.Equal(t, Directory, c.Kind)

	require.NoError(t, os.Remove(testFilePath))
	c = waitForChange(t, w, func(c Change) bool { return c.Op == Remove })
	assert.Equal(t, testFilePath, c.Path)

	// retarget and make sure the new directory reports
	other := t.TempDir()
	require.NoError(t, w.Watch(other))
	assert.Equal(t, other, w.Current())
	time.Sleep(100 * time.Millisecond)

	otherFile := filepath.Join(other, "x")
	require.NoError(t, os.WriteFile(otherFile, nil, 0644))
	c = waitForChange(t, w, func(c Change) bool { return c.Op == Create && c.Path == otherFile })
	assert.Equal(t, File, c.Kind)

	err = w.Watch(filepath.Join(other, "does-not-exist"))
	require.Error(t, err)
	assert.Equal(t, other, w.Current())
}
