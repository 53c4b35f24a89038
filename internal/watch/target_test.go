package watch

import (
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"browsd/internal/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records calls and fails Add for paths listed in failAdd.
type fakeBackend struct {
	watched map[string]bool
	failAdd map[string]error
	failRm  error
	calls   []string
	deliver func(RawEvent)
	onError func(error)
	closed  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{watched: map[string]bool{}, failAdd: map[string]error{}}
}

func (b *fakeBackend) factory() BackendFactory {
	return func(deliver func(RawEvent), onError func(error)) (Backend, error) {
		b.deliver = deliver
		b.onError = onError
		return b, nil
	}
}

func (b *fakeBackend) Add(path string) error {
	b.calls = append(b.calls, "add "+path)
	if err, ok := b.failAdd[path]; ok {
		return err
	}
	b.watched[path] = true
	return nil
}

func (b *fakeBackend) Remove(path string) error {
	b.calls = append(b.calls, "remove "+path)
	delete(b.watched, path)
	return b.failRm
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

func TestRetargetSuccess(t *testing.T) {
	b := newFakeBackend()
	m := NewTargetManager(b)
	assert.Equal(t, "", m.Current())

	require.NoError(t, m.Retarget("/a"))
	assert.Equal(t, "/a", m.Current())

	require.NoError(t, m.Retarget("/b"))
	assert.Equal(t, "/b", m.Current())
	assert.Equal(t, []string{"add /a", "remove /a", "add /b"}, b.calls)
	assert.Equal(t, map[string]bool{"/b": true}, b.watched)
}

func TestRetargetFailureKeepsCurrent(t *testing.T) {
	b := newFakeBackend()
	m := NewTargetManager(b)
	require.NoError(t, m.Retarget("/a"))

	b.failAdd["/missing"] = &fs.PathError{Op: "inotify_add_watch", Path: "/missing", Err: syscall.ENOENT}
	err := m.Retarget("/missing")
	require.Error(t, err)

	var werr *errors.WatchError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, errors.WatchIO, werr.Kind())
	assert.Equal(t, "/missing", werr.Path())

	assert.Equal(t, "/a", m.Current())
	assert.True(t, b.watched["/a"], "the previous directory must be watched again")
}

func TestRetargetSwallowsUnwatchErrors(t *testing.T) {
	b := newFakeBackend()
	m := NewTargetManager(b)
	require.NoError(t, m.Retarget("/a"))

	b.failRm = fmt.Errorf("can't remove non-existent watch")
	require.NoError(t, m.Retarget("/b"))
	assert.Equal(t, "/b", m.Current())
}

func TestTranslateWatchError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorKind
	}{
		{"path error", &fs.PathError{Op: "open", Path: "/x", Err: os.ErrPermission}, errors.WatchIO},
		{"errno", syscall.ENOSPC, errors.WatchIO},
		{"closed", fsnotify.ErrClosed, errors.WatchInternal},
		{"wrapped non-existent watch", fmt.Errorf("remove: %w", fsnotify.ErrNonExistentWatch), errors.WatchInternal},
		{"plain message", fmt.Errorf("backend says no"), errors.WatchGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			werr := translateWatchError("/x", tt.err)
			assert.Equal(t, tt.want, werr.Kind())
			assert.NotEmpty(t, werr.Error())
		})
	}
}
