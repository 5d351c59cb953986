package logstore

// ring is a fixed-capacity FIFO of entries. When full, a push evicts the
// oldest entry. Callers synchronize access; the Store holds the lock.
type ring struct {
	entries  []Entry
	capacity int
	start    int
	length   int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// push appends an entry, evicting the oldest when at capacity.
func (r *ring) push(e Entry) {
	if r.length == r.capacity {
		r.entries[r.start] = e
		r.start = (r.start + 1) % r.capacity
		return
	}
	r.entries[(r.start+r.length)%r.capacity] = e
	r.length++
}

// snapshot returns the buffered entries in insertion order.
func (r *ring) snapshot() []Entry {
	out := make([]Entry, r.length)
	for i := 0; i < r.length; i++ {
		out[i] = r.entries[(r.start+i)%r.capacity]
	}
	return out
}

func (r *ring) len() int {
	return r.length
}
