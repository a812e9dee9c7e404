// Package service composes the extraction cache, format resolution and the
// download orchestrator into the operations the handlers expose.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/cache"
	"github.com/SpaceXe-tech/yt-api/internal/download"
	"github.com/SpaceXe-tech/yt-api/internal/extractor"
	"github.com/SpaceXe-tech/yt-api/internal/format"
	"github.com/SpaceXe-tech/yt-api/internal/media"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/internal/progress"
	"github.com/SpaceXe-tech/yt-api/internal/videoid"
)

// MediaService serves metadata and drives downloads.
type MediaService struct {
	cache        *cache.Cache
	extractor    extractor.Extractor
	orchestrator *download.Orchestrator
	cfg          *model.ExtractorConfig
}

// NewMediaService creates a new media service
func NewMediaService(c *cache.Cache, xt extractor.Extractor, orch *download.Orchestrator, cfg *model.ExtractorConfig) *MediaService {
	return &MediaService{
		cache:        c,
		extractor:    xt,
		orchestrator: orch,
		cfg:          cfg,
	}
}

// Info resolves the locator and returns the video's metadata, served from
// the cache whenever a valid record exists.
func (s *MediaService) Info(ctx context.Context, locator string) (*media.Info, error) {
	id, err := videoid.Resolve(locator)
	if err != nil {
		return nil, err
	}

	payload, err := s.cache.GetOrRefresh(ctx, id, s.refresh)
	if err != nil {
		return nil, err
	}

	var info media.Info
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("decoding cached metadata: %w", err)
	}
	return &info, nil
}

func (s *MediaService) refresh(ctx context.Context, id string) ([]byte, error) {
	info, err := s.extractor.Extract(ctx, id)
	if err != nil {
		return nil, err
	}
	return json.Marshal(info)
}

// Metadata builds the public metadata view with per-quality sizes.
func (s *MediaService) Metadata(ctx context.Context, locator string) (*model.VideoMetadataResponse, error) {
	info, err := s.Info(ctx, locator)
	if err != nil {
		return nil, err
	}

	resp := &model.VideoMetadataResponse{
		ID:                 info.ID,
		Title:              info.Title,
		Channel:            info.Channel,
		UploaderURL:        info.UploaderURL,
		DurationString:     info.DurationString,
		Thumbnail:          info.Thumbnail,
		Audio:              []model.FormatOption{},
		Video:              []model.FormatOption{},
		DefaultAudioFormat: s.cfg.DefaultAudioFormat,
	}
	for _, quality := range format.AvailableQualities(info) {
		selected, err := format.Select(info, quality, 0)
		if err != nil {
			continue
		}
		option := model.FormatOption{
			Quality: quality,
			Size:    media.SizeString(selected.ContentLength),
		}
		if selected.Kind == media.KindAudio {
			resp.Audio = append(resp.Audio, option)
		} else {
			resp.Video = append(resp.Video, option)
		}
	}
	return resp, nil
}

// Download runs the full pipeline for one request. Exactly one terminal
// event reaches the tracker: quality resolution failures short-circuit to
// Failed without ever invoking the orchestrator.
func (s *MediaService) Download(ctx context.Context, payload *model.MediaDownloadPayload, links download.LinkBuilder, tracker *progress.Tracker) (*media.DownloadResult, error) {
	info, err := s.Info(ctx, payload.URL)
	if err != nil {
		classified := apierr.Classify(err)
		tracker.Failed(classified)
		return nil, classified
	}

	selected, err := format.Select(info, payload.Quality, payload.Bitrate)
	if err != nil {
		classified := apierr.Classify(err)
		tracker.Failed(classified)
		return nil, classified
	}

	return s.orchestrator.Run(ctx, info, selected, links, tracker)
}
