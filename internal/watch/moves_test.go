package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMovePairerJoinsHalves(t *testing.T) {
	now := time.Now()
	want := []RawEvent{{Kind: RawRenameBoth, Paths: []string{"/d/a", "/d/b"}}}

	t.Run("from then to", func(t *testing.T) {
		p := newMovePairer()
		assert.Empty(t, p.Add(7, moveHalf{path: "/d/a", from: true, seen: now}))
		assert.Equal(t, 1, p.Len())
		assert.Equal(t, want, p.Add(7, moveHalf{path: "/d/b", seen: now}))
		assert.Zero(t, p.Len())
	})

	t.Run("to then from", func(t *testing.T) {
		p := newMovePairer()
		assert.Empty(t, p.Add(7, moveHalf{path: "/d/b", seen: now}))
		assert.Equal(t, want, p.Add(7, moveHalf{path: "/d/a", from: true, seen: now}))
		assert.Zero(t, p.Len())
	})

	t.Run("interleaved cookies", func(t *testing.T) {
		p := newMovePairer()
		assert.Empty(t, p.Add(1, moveHalf{path: "/d/a", from: true, seen: now}))
		assert.Empty(t, p.Add(2, moveHalf{path: "/d/c", from: true, seen: now}))
		assert.Equal(t, []RawEvent{{Kind: RawRenameBoth, Paths: []string{"/d/c", "/d/d"}}},
			p.Add(2, moveHalf{path: "/d/d", seen: now}))
		assert.Equal(t, want, p.Add(1, moveHalf{path: "/d/b", seen: now}))
	})
}

func TestMovePairerRepeatedDirection(t *testing.T) {
	now := time.Now()
	p := newMovePairer()
	p.Add(3, moveHalf{path: "/d/a", from: true, seen: now})
	got := p.Add(3, moveHalf{path: "/d/x", from: true, seen: now})
	assert.Equal(t, []RawEvent{{Kind: RawRemove, Paths: []string{"/d/a"}}}, got)
	assert.Equal(t, 1, p.Len())
}

func TestMovePairerExpire(t *testing.T) {
	start := time.Now()
	p := newMovePairer()
	p.Add(1, moveHalf{path: "/d/gone", from: true, seen: start})
	p.Add(2, moveHalf{path: "/d/file", seen: start.Add(time.Millisecond)})
	p.Add(3, moveHalf{path: "/d/dir", isDir: true, seen: start.Add(2 * time.Millisecond)})
	p.Add(4, moveHalf{path: "/d/fresh", from: true, seen: start.Add(time.Second)})

	got := p.Expire(start.Add(100*time.Millisecond), 50*time.Millisecond)
	assert.Equal(t, []RawEvent{
		{Kind: RawRemove, Paths: []string{"/d/gone"}},
		{Kind: RawCreateFile, Paths: []string{"/d/file"}},
		{Kind: RawCreateDirectory, Paths: []string{"/d/dir"}},
	}, got)
	assert.Equal(t, 1, p.Len(), "young halves keep waiting")

	p.Reset()
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Expire(start.Add(time.Hour), 0))
}
