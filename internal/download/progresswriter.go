package download

import (
	"fmt"
	"time"

	"github.com/SpaceXe-tech/yt-api/internal/media"
	"github.com/SpaceXe-tech/yt-api/internal/progress"
)

// Downloading events are throttled so consumers see a steady trickle instead
// of one event per chunk.
const progressInterval = 200 * time.Millisecond

// progressWriter counts transferred bytes and emits throttled Downloading
// events. It runs on the transfer goroutine; the tracker handles the
// cross-goroutine handoff.
type progressWriter struct {
	size    int64
	total   int64
	start   time.Time
	last    time.Time
	tracker *progress.Tracker
}

func newProgressWriter(size int64, tracker *progress.Tracker) *progressWriter {
	now := time.Now()
	return &progressWriter{size: size, start: now, last: now, tracker: tracker}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n := len(b)
	p.total += int64(n)

	now := time.Now()
	if now.Sub(p.last) < progressInterval {
		return n, nil
	}
	p.last = now

	var fraction float64
	eta := "Unknown"
	if p.size > 0 {
		fraction = float64(p.total) / float64(p.size)
		if elapsed := now.Sub(p.start).Seconds(); elapsed > 0 && fraction > 0 {
			remaining := elapsed/fraction - elapsed
			eta = fmt.Sprintf("%ds", int(remaining))
		}
	}
	p.tracker.Downloading(fraction, p.rate(now), eta)
	return n, nil
}

func (p *progressWriter) rate(now time.Time) string {
	elapsed := now.Sub(p.start).Seconds()
	if elapsed <= 0 {
		return "Unknown"
	}
	return media.SizeString(int64(float64(p.total)/elapsed)) + "/s"
}
