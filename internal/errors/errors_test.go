package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []ErrorKind{
		Unknown, FileNotFound, FileAccessDenied, InvalidPath, NotDirectory,
		FileCreateFailed, FileOperationFailed, InvalidConfig,
		WatchGeneric, WatchIO, WatchInternal,
	}
	seen := make(map[ErrorKind]bool)
	for _, k := range kinds {
		assert.False(t, seen[k], "kind %d repeated", k)
		seen[k] = true
	}
	assert.Equal(t, WatchInternal, kinds[len(kinds)-1])
	assert.Equal(t, len(kinds)-1, int(WatchInternal))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/path/to/file", FileAccessDenied, nil)
	assert.Equal(t, "cannot access: /path/to/file", fileErr.Error())
	assert.Equal(t, "/path/to/file", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/path/to/file", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /path/to/file: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	notFoundErr := NewFileError("file not found", "/missing/file", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.True(t, IsFileAccessDenied(fileErr))
	assert.False(t, IsFileAccessDenied(notFoundErr))

	notDir := NewFileError("not a directory", "/etc/hosts", NotDirectory, nil)
	assert.True(t, IsNotDirectory(notDir))
	assert.False(t, IsNotDirectory(notFoundErr))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "tick_interval_ms", InvalidConfig, nil)
	assert.Equal(t, "invalid value: tick_interval_ms", configErr.Error())
	assert.Equal(t, "tick_interval_ms", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "tick_interval_ms", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: tick_interval_ms: value out of range", configErr.Error())

	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestWatchError(t *testing.T) {
	t.Run("generic keeps backend text", func(t *testing.T) {
		err := NewWatchError("/tmp/x", WatchGeneric, fmt.Errorf("watcher already closed"))
		assert.Equal(t, WatchGeneric, err.Kind())
		assert.Equal(t, "cannot watch /tmp/x: watcher already closed", err.Error())
		assert.Equal(t, "/tmp/x", err.Path())
	})

	t.Run("io keeps the os error", func(t *testing.T) {
		err := NewWatchError("/missing", WatchIO, os.ErrNotExist)
		assert.Equal(t, WatchIO, err.Kind())
		assert.Contains(t, err.Error(), "file does not exist")
		assert.True(t, Is(err, os.ErrNotExist))
	})

	t.Run("anything else is internal", func(t *testing.T) {
		err := NewWatchError("/tmp/y", FileNotFound, fmt.Errorf("boom"))
		assert.Equal(t, WatchInternal, err.Kind())
		assert.Equal(t, "cannot watch /tmp/y: internal error boom", err.Error())
	})

	wrapped := Wrap(NewWatchError("/a", WatchIO, os.ErrPermission), "retarget")
	assert.True(t, IsWatchError(wrapped))
	assert.False(t, IsWatchError(New("plain")))
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/path/to/file", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "start_dir", InvalidConfig, fileErr)

	assert.Equal(t, "config error: start_dir: file error: /path/to/file: base error", configErr.Error())
	assert.True(t, Is(configErr, baseErr))
	assert.True(t, Is(configErr, fileErr))

	var fe *FileError
	assert.True(t, As(configErr, &fe))
	assert.Equal(t, "/path/to/file", fe.Path())

	assert.True(t, IsFileNotFound(configErr))
	assert.True(t, IsInvalidConfig(configErr))
}
