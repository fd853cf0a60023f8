package sandbox

import (
	"bytes"
	"sync"
)

// capWriter accumulates stream output up to a byte limit. The first write
// that would push the accumulated size past the limit truncates to the
// limit and fires onExceed exactly once. Later writes are swallowed so the
// child's pipes keep draining until the process is torn down.
type capWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	limit    int64
	exceeded bool
	onExceed func()
}

func newCapWriter(limit int64, onExceed func()) *capWriter {
	return &capWriter{limit: limit, onExceed: onExceed}
}

// Write never reports an error: returning one would stop the exec copier
// goroutine while the child is still alive and could deadlock it on a full
// pipe before the kill lands.
func (w *capWriter) Write(p []byte) (int, error) {
	var fire bool

	w.mu.Lock()
	if !w.exceeded {
		remaining := w.limit - int64(w.buf.Len())
		if int64(len(p)) > remaining {
			w.buf.Write(p[:remaining])
			w.exceeded = true
			fire = true
		} else {
			w.buf.Write(p)
		}
	}
	w.mu.Unlock()

	if fire && w.onExceed != nil {
		w.onExceed()
	}
	return len(p), nil
}

// String returns the captured (possibly truncated) output.
func (w *capWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Exceeded reports whether the limit was crossed.
func (w *capWriter) Exceeded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exceeded
}
