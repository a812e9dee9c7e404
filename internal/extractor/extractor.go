// Package extractor talks to YouTube: metadata extraction, keyword search
// and the raw media transfer.
package extractor

import (
	"context"
	"io"

	"github.com/SpaceXe-tech/yt-api/internal/media"
)

// Extractor fetches full metadata for a video id. Calls may be slow and
// network-bound.
type Extractor interface {
	Extract(ctx context.Context, videoID string) (*media.Info, error)
}

// SearchItem is one shallow search result.
type SearchItem struct {
	ID       string
	Title    string
	Duration string
}

// Searcher performs a keyword video search capped at limit results.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchItem, error)
}

// Transfer opens the byte stream of one format. The returned size may be
// zero when the upstream does not report a length.
type Transfer interface {
	Stream(ctx context.Context, videoID string, itag int) (io.ReadCloser, int64, error)
}
