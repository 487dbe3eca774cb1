package celestial

import "gonum.org/v1/gonum/spatial/r3"

// Trail is a bounded FIFO of render-space positions, oldest first. Once
// full it is a ring: head indexes the oldest point.
type Trail struct {
	buf  []r3.Vec
	head int
	max  int
}

// NewTrail returns an empty trail holding at most max points.
// A negative max is treated as zero.
func NewTrail(max int) *Trail {
	if max < 0 {
		max = 0
	}
	return &Trail{max: max, buf: make([]r3.Vec, 0, min(max, 1024))}
}

// Push appends p, overwriting the oldest point once the cap is reached.
func (t *Trail) Push(p r3.Vec) {
	if t.max == 0 {
		return
	}
	if len(t.buf) < t.max {
		t.buf = append(t.buf, p)
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
}

// SetMax changes the cap, keeping only the newest n points when shrinking.
func (t *Trail) SetMax(n int) {
	if n < 0 {
		n = 0
	}
	pts := t.Points()
	if over := len(pts) - n; over > 0 {
		pts = pts[over:]
	}
	t.buf, t.head, t.max = pts, 0, n
}

func (t *Trail) Max() int { return t.max }
func (t *Trail) Len() int { return len(t.buf) }

// Points returns a copy of the trail, oldest first.
func (t *Trail) Points() []r3.Vec {
	out := make([]r3.Vec, 0, len(t.buf))
	out = append(out, t.buf[t.head:]...)
	return append(out, t.buf[:t.head]...)
}

// Last returns the newest point, if any.
func (t *Trail) Last() (r3.Vec, bool) {
	if len(t.buf) == 0 {
		return r3.Vec{}, false
	}
	return t.buf[(t.head+len(t.buf)-1)%len(t.buf)], true
}

func (t *Trail) Clear() { t.buf, t.head = t.buf[:0], 0 }
