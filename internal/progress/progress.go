// Package progress carries download status from the transfer worker to
// whichever delivery protocol is active.
package progress

import (
	"sync"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
)

// EventKind tags the members of the event union.
type EventKind string

const (
	EventDownloading EventKind = "downloading"
	EventFinished    EventKind = "finished"
	EventCompleted   EventKind = "completed"
	EventFailed      EventKind = "error"
)

// Event is one progress update. Exactly one of the payload fields is set,
// according to Kind.
type Event struct {
	Kind EventKind

	// Downloading
	Fraction float64
	Rate     string
	ETA      string

	// Finished
	Filename string

	// Completed
	Result *media.DownloadResult

	// Failed
	Err *apierr.Error
}

// Sink receives events in emission order. Implementations must tolerate
// being called from the transfer worker goroutine.
type Sink interface {
	Emit(Event)
	// Close signals that no further events will ever arrive.
	Close()
}

// state of the tracker machine: Idle -> Downloading* -> Finished ->
// Completed, or any non-terminal state -> Failed.
type state int

const (
	stateIdle state = iota
	stateDownloading
	stateFinished
	stateCompleted
	stateFailed
)

// Tracker enforces the event ordering for one orchestration run and forwards
// accepted events to the sink. Events arriving after a terminal state are
// dropped, never errors.
type Tracker struct {
	mu    sync.Mutex
	state state
	sink  Sink
}

// NewTracker wraps a sink with the shared state machine.
func NewTracker(sink Sink) *Tracker {
	return &Tracker{sink: sink}
}

// Downloading reports transfer progress. Valid from Idle and Downloading.
func (t *Tracker) Downloading(fraction float64, rate, eta string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateIdle && t.state != stateDownloading {
		return
	}
	t.state = stateDownloading
	t.sink.Emit(Event{Kind: EventDownloading, Fraction: fraction, Rate: rate, ETA: eta})
}

// Finished reports that the transfer wrote its last byte.
func (t *Tracker) Finished(filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateIdle && t.state != stateDownloading {
		return
	}
	t.state = stateFinished
	t.sink.Emit(Event{Kind: EventFinished, Filename: filename})
}

// Completed delivers the terminal success payload and closes the sink.
func (t *Tracker) Completed(result *media.DownloadResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != stateFinished {
		return
	}
	t.state = stateCompleted
	t.sink.Emit(Event{Kind: EventCompleted, Result: result})
	t.sink.Close()
}

// Failed delivers the terminal failure payload and closes the sink.
func (t *Tracker) Failed(err *apierr.Error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == stateCompleted || t.state == stateFailed {
		return
	}
	t.state = stateFailed
	t.sink.Emit(Event{Kind: EventFailed, Err: err})
	t.sink.Close()
}
