package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	value int64
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := New[record]()

	h := p.Acquire()
	p.Get(h).value = 42
	assert.Equal(t, int64(42), p.Get(h).value)
	assert.Equal(t, 1, p.Live())

	p.Release(h)
	assert.Equal(t, 0, p.Live())
}

func TestHandlesStayDistinctAcrossGrowth(t *testing.T) {
	p := New[record]()

	const n = blockSize*2 + 7
	handles := make([]Handle, n)
	for i := range handles {
		h := p.Acquire()
		p.Get(h).value = int64(i)
		handles[i] = h
	}

	assert.Equal(t, n, p.Live())
	for i, h := range handles {
		assert.Equal(t, int64(i), p.Get(h).value)
	}
}

func TestReleasedSlotIsReused(t *testing.T) {
	p := New[record]()

	h1 := p.Acquire()
	p.Release(h1)

	h2 := p.Acquire()
	assert.Equal(t, h1, h2, "freed slot should be handed back out by the next acquire")
	assert.Equal(t, 1, p.Live())
}

func TestLiveCountConservedAcrossAcquireRelease(t *testing.T) {
	p := New[record]()

	var handles []Handle
	for i := 0; i < 100; i++ {
		handles = append(handles, p.Acquire())
	}
	for _, h := range handles[:40] {
		p.Release(h)
	}
	assert.Equal(t, 60, p.Live())
}
