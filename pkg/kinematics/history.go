package kinematics

import "github.com/jontylopez/GuardianCam/pkg/pose"

// history is a fixed-capacity FIFO of past pixel positions for one
// landmark. The oldest entry is evicted when the buffer is full.
type history struct {
	buf   []pose.Point
	start int
	n     int
}

func newHistory(capacity int) *history {
	return &history{buf: make([]pose.Point, capacity)}
}

// Push appends a position, evicting the oldest when full.
func (h *history) Push(p pose.Point) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = p
		h.n++
		return
	}
	h.buf[h.start] = p
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored positions.
func (h *history) Len() int {
	return h.n
}

// At returns position i counted from the newest entry: At(0) is the
// current position, At(1) the previous one, and so on.
func (h *history) At(i int) pose.Point {
	idx := (h.start + h.n - 1 - i) % len(h.buf)
	if idx < 0 {
		idx += len(h.buf)
	}
	return h.buf[idx]
}
