package live

import "sync"

type outbound struct {
	data  []byte
	frame bool
}

// outbox holds messages waiting for the writer. At most one frame is ever
// pending: a newer frame replaces the unsent one and moves to the back.
// Other messages keep their order and are bounded by limit.
type outbox struct {
	mu      sync.Mutex
	pending []outbound
	limit   int
	closed  bool

	ready chan struct{}
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit, ready: make(chan struct{}, 1)}
}

// pushFrame queues a frame, discarding any frame not yet written. It
// reports whether an older frame was replaced.
func (o *outbox) pushFrame(data []byte) (replaced bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	for i, m := range o.pending {
		if m.frame {
			o.pending = append(o.pending[:i], o.pending[i+1:]...)
			replaced = true
			break
		}
	}
	o.pending = append(o.pending, outbound{data: data, frame: true})
	o.signal()
	return replaced
}

// push queues a non-frame message. It returns false when the outbox is
// closed or already holds limit such messages.
func (o *outbox) push(data []byte) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	queued := 0
	for _, m := range o.pending {
		if !m.frame {
			queued++
		}
	}
	if queued >= o.limit {
		return false
	}
	o.pending = append(o.pending, outbound{data: data})
	o.signal()
	return true
}

func (o *outbox) signal() {
	select {
	case o.ready <- struct{}{}:
	default:
	}
}

// drain removes and returns everything pending, oldest first.
func (o *outbox) drain() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([][]byte, len(o.pending))
	for i, m := range o.pending {
		out[i] = m.data
	}
	o.pending = nil
	return out
}

func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.pending = nil
	o.mu.Unlock()
}
