package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"go.uber.org/zap"
)

const (
	innertubeSearchURL = "https://www.youtube.com/youtubei/v1/search?prettyPrint=false"
	innertubeClient    = "WEB"
	innertubeVersion   = "2.20230920.00.00"
	// Restricts search results to videos only.
	paramsTypeVideo = "EgIQAQ%3D%3D"
)

// Search queries the InnerTube API and returns up to limit shallow results.
// Identical queries are served from a bounded per-process memo.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]SearchItem, error) {
	memoKey := fmt.Sprintf("%s|%d", query, limit)
	if items, ok := y.memo.get(memoKey); ok {
		logger.LogDebug("Search served from memo", zap.String("query", query))
		return items, nil
	}

	body, err := json.Marshal(map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    innertubeClient,
				"clientVersion": innertubeVersion,
			},
		},
		"query":  query,
		"params": paramsTypeVideo,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, innertubeSearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindExtraction, "video search failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.New(apierr.KindExtraction,
			fmt.Sprintf("video search failed with status %d", resp.StatusCode))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apierr.Wrap(apierr.KindExtraction, "decoding search response", err)
	}

	items := collectSearchItems(payload, limit)
	logger.LogInfo("Video search completed",
		zap.String("query", query),
		zap.Int("results", len(items)))

	y.memo.put(memoKey, items)
	return items, nil
}

// collectSearchItems walks the InnerTube response tree picking out video
// renderers. Entries missing any expected field are skipped.
func collectSearchItems(payload map[string]any, limit int) []SearchItem {
	contents := dig(payload,
		"contents", "twoColumnSearchResultsRenderer", "primaryContents",
		"sectionListRenderer", "contents")
	sections, _ := contents.([]any)

	var items []SearchItem
	for _, section := range sections {
		entries, _ := dig(section, "itemSectionRenderer", "contents").([]any)
		for _, entry := range entries {
			video, _ := dig(entry, "videoRenderer").(map[string]any)
			if video == nil {
				continue
			}
			id, _ := video["videoId"].(string)
			title := runsText(video["title"])
			duration, _ := dig(video, "lengthText", "simpleText").(string)
			if id == "" || title == "" {
				continue
			}
			items = append(items, SearchItem{ID: id, Title: title, Duration: duration})
			if limit > 0 && len(items) == limit {
				return items
			}
		}
	}
	return items
}

func dig(node any, path ...string) any {
	current := node
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func runsText(node any) string {
	runs, _ := dig(node, "runs").([]any)
	if len(runs) == 0 {
		return ""
	}
	text, _ := dig(runs[0], "text").(string)
	return text
}

// searchMemo is a bounded query -> results map. When full it is reset rather
// than evicted entry by entry; search traffic is light enough that a precise
// LRU buys nothing.
type searchMemo struct {
	mu      sync.Mutex
	entries map[string][]SearchItem
	cap     int
}

func newSearchMemo(capacity int) *searchMemo {
	return &searchMemo{entries: make(map[string][]SearchItem), cap: capacity}
}

func (m *searchMemo) get(key string) ([]SearchItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.entries[key]
	return items, ok
}

func (m *searchMemo) put(key string, items []SearchItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.cap {
		m.entries = make(map[string][]SearchItem)
	}
	m.entries[key] = items
}
