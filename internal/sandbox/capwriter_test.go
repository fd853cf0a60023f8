package sandbox

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapWriter_UnderLimit(t *testing.T) {
	w := newCapWriter(64, nil)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", w.String())
	assert.False(t, w.Exceeded())
}

func TestCapWriter_TruncatesAtLimit(t *testing.T) {
	var fired atomic.Int32
	w := newCapWriter(8, func() { fired.Add(1) })

	_, err := w.Write([]byte("0123456789"))
	require.NoError(t, err)

	assert.Equal(t, "01234567", w.String())
	assert.True(t, w.Exceeded())
	assert.Equal(t, int32(1), fired.Load())
}

func TestCapWriter_SwallowsAfterExceed(t *testing.T) {
	var fired atomic.Int32
	w := newCapWriter(4, func() { fired.Add(1) })

	_, _ = w.Write([]byte("abcdef"))
	n, err := w.Write([]byte("more"))
	require.NoError(t, err)

	// Reported as consumed so the pipe keeps draining.
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", w.String())
	assert.Equal(t, int32(1), fired.Load())
}

func TestCapWriter_ConcurrentWritesFireOnce(t *testing.T) {
	var fired atomic.Int32
	w := newCapWriter(100, func() { fired.Add(1) })

	chunk := []byte(strings.Repeat("x", 30))
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Write(chunk)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fired.Load())
	assert.Len(t, w.String(), 100)
}
