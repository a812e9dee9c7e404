package progress

import "sync/atomic"

// Buffered is the request/response sink: intermediate events are discarded
// and only the terminal event is surfaced to the waiting caller.
type Buffered struct {
	done chan Event
}

// NewBuffered creates a sink for one synchronous run.
func NewBuffered() *Buffered {
	return &Buffered{done: make(chan Event, 1)}
}

// Emit keeps only Completed and Failed.
func (b *Buffered) Emit(ev Event) {
	switch ev.Kind {
	case EventCompleted, EventFailed:
		select {
		case b.done <- ev:
		default:
		}
	}
}

// Close is a no-op; the terminal event already signals completion.
func (b *Buffered) Close() {}

// Wait blocks until the terminal event arrives.
func (b *Buffered) Wait() Event {
	return <-b.done
}

// Streamed is the session sink: every accepted event is forwarded in order
// to a channel drained by the connection's writer goroutine. Once the peer
// is gone further emissions become no-ops.
type Streamed struct {
	events chan Event
	gone   atomic.Bool
}

// NewStreamed creates a sink for one streaming session. The buffer absorbs
// short bursts so the transfer worker never blocks on a slow peer for long.
func NewStreamed() *Streamed {
	return &Streamed{events: make(chan Event, 16)}
}

// Events is drained by the delivery goroutine owning the connection.
func (s *Streamed) Events() <-chan Event {
	return s.events
}

// PeerGone marks the remote side as disconnected; the run continues but its
// output is discarded.
func (s *Streamed) PeerGone() {
	if s.gone.CompareAndSwap(false, true) {
		// Drain so a worker blocked on a full buffer can proceed.
		go func() {
			for range s.events {
			}
		}()
	}
}

// Emit forwards the event unless the peer has disconnected.
func (s *Streamed) Emit(ev Event) {
	if s.gone.Load() {
		return
	}
	s.events <- ev
}

// Close ends the event stream after the terminal event.
func (s *Streamed) Close() {
	close(s.events)
}
