package model

const (
	defaultRingCap = 1000
	maxTotal       = int64(^uint64(0) >> 1)
)

// RingBuffer is a fixed-capacity circular store of Samples.
// When the buffer is full, new writes overwrite the oldest entry.
// It is not safe for concurrent use; the owning engine serialises access.
type RingBuffer struct {
	buf   []Sample
	head  int   // index of the next write position
	total int64 // samples ever written, saturating
}

// NewRingBuffer creates a RingBuffer with the given capacity.
// If capacity <= 0, the defaultRingCap (1000) is used.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultRingCap
	}
	return &RingBuffer{
		buf: make([]Sample, capacity),
	}
}

// Write stores s in the next slot, overwriting the oldest sample if full.
func (r *RingBuffer) Write(s Sample) {
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
	if r.total < maxTotal {
		r.total++
	}
}

// Cap returns the fixed capacity.
func (r *RingBuffer) Cap() int {
	return len(r.buf)
}

// Len returns the number of valid samples, min(TotalWritten, Cap).
func (r *RingBuffer) Len() int {
	if r.total < int64(len(r.buf)) {
		return int(r.total)
	}
	return len(r.buf)
}

// TotalWritten returns how many samples have been written since creation or
// the last Clear.
func (r *RingBuffer) TotalWritten() int64 {
	return r.total
}

// Newest returns the most recent sample. ok is false when the buffer is empty.
func (r *RingBuffer) Newest() (s Sample, ok bool) {
	if r.total == 0 {
		return Sample{}, false
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)], true
}

// Clear resets the buffer to empty. Capacity is unchanged.
func (r *RingBuffer) Clear() {
	clear(r.buf)
	r.head = 0
	r.total = 0
}

// SnapshotRange returns a copy of the most recent n samples in chronological
// order (oldest first). n is clamped to [0, Cap]; when fewer than n samples
// have been written only the valid ones are returned.
func (r *RingBuffer) SnapshotRange(n int) []Sample {
	if n > len(r.buf) {
		n = len(r.buf)
	}
	if valid := r.Len(); n > valid {
		n = valid
	}
	if n <= 0 {
		return []Sample{}
	}

	out := make([]Sample, n)
	newest := (r.head - 1 + len(r.buf)) % len(r.buf)
	oldest := (r.head - n + len(r.buf)) % len(r.buf)
	if oldest <= newest {
		copy(out, r.buf[oldest:newest+1])
		return out
	}
	// Wrapped: tail segment [oldest, cap) then head segment [0, newest].
	m := copy(out, r.buf[oldest:])
	copy(out[m:], r.buf[:newest+1])
	return out
}
