package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
)

// recordingSink captures every accepted event.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recordingSink) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recordingSink) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func assertKinds(t *testing.T, got, want []EventKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", got, want)
		}
	}
}

func TestTrackerHappyPath(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTracker(sink)

	tr.Downloading(0.25, "1.00 MB/s", "30s")
	tr.Downloading(0.75, "1.10 MB/s", "10s")
	tr.Finished("video.webm")
	tr.Completed(&media.DownloadResult{Success: true, Filename: "video.webm"})

	assertKinds(t, sink.kinds(), []EventKind{EventDownloading, EventDownloading, EventFinished, EventCompleted})
	if !sink.closed {
		t.Error("sink not closed after terminal event")
	}
}

func TestTrackerNoEventsAfterTerminal(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTracker(sink)

	tr.Finished("video.webm")
	tr.Completed(&media.DownloadResult{Success: true})

	// Late events from a worker that kept running must be dropped.
	tr.Downloading(0.9, "x", "x")
	tr.Finished("other.webm")
	tr.Failed(apierr.New(apierr.KindTransfer, "late failure"))

	assertKinds(t, sink.kinds(), []EventKind{EventFinished, EventCompleted})
}

func TestTrackerFailedFromIdle(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTracker(sink)

	tr.Failed(apierr.New(apierr.KindUnsupportedQuality, "no such quality"))
	tr.Downloading(0.5, "x", "x")
	tr.Completed(&media.DownloadResult{})

	assertKinds(t, sink.kinds(), []EventKind{EventFailed})
	if !sink.closed {
		t.Error("sink not closed after failure")
	}
}

func TestTrackerCompletedRequiresFinished(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTracker(sink)

	tr.Downloading(0.5, "x", "x")
	tr.Completed(&media.DownloadResult{Success: true})

	assertKinds(t, sink.kinds(), []EventKind{EventDownloading})
}

func TestBufferedSurfacesOnlyTerminal(t *testing.T) {
	sink := NewBuffered()
	tr := NewTracker(sink)

	go func() {
		tr.Downloading(0.5, "x", "x")
		tr.Finished("video.webm")
		tr.Completed(&media.DownloadResult{Success: true, Filename: "video.webm"})
	}()

	terminal := sink.Wait()
	if terminal.Kind != EventCompleted {
		t.Fatalf("terminal kind = %s, want completed", terminal.Kind)
	}
	if !terminal.Result.Success || terminal.Result.Filename != "video.webm" {
		t.Errorf("terminal result = %+v", terminal.Result)
	}
}

func TestStreamedDeliversInOrder(t *testing.T) {
	sink := NewStreamed()
	tr := NewTracker(sink)

	go func() {
		tr.Downloading(0.2, "x", "x")
		tr.Downloading(0.8, "x", "x")
		tr.Finished("video.webm")
		tr.Completed(&media.DownloadResult{Success: true})
	}()

	var kinds []EventKind
	for ev := range sink.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assertKinds(t, kinds, []EventKind{EventDownloading, EventDownloading, EventFinished, EventCompleted})
}

func TestStreamedPeerGoneUnblocksWorker(t *testing.T) {
	sink := NewStreamed()
	tr := NewTracker(sink)

	sink.PeerGone()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// More events than the channel buffers; must not block.
		for i := 0; i < 100; i++ {
			tr.Downloading(float64(i)/100, "x", "x")
		}
		tr.Finished("video.webm")
		tr.Completed(&media.DownloadResult{Success: true})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker blocked after peer disconnect")
	}
}
