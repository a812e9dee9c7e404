// Package download drives the media transfer for one resolved format and
// reports progress through a tracker.
package download

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/extractor"
	"github.com/SpaceXe-tech/yt-api/internal/media"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/internal/progress"
	"github.com/SpaceXe-tech/yt-api/internal/storage"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"
	"github.com/SpaceXe-tech/yt-api/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFilenameLen = 120

// LinkBuilder turns an artifact filename into a publicly reachable URL.
type LinkBuilder func(filename string) string

// Orchestrator runs one transfer per call. It never retries; retries, if
// any, belong to the caller.
type Orchestrator struct {
	transfer       extractor.Transfer
	store          *storage.Manager
	filenamePrefix string
}

// NewOrchestrator creates the orchestrator over a transfer collaborator and
// the artifact store.
func NewOrchestrator(transfer extractor.Transfer, store *storage.Manager, cfg *model.StorageConfig) *Orchestrator {
	return &Orchestrator{
		transfer:       transfer,
		store:          store,
		filenamePrefix: cfg.FilenamePrefix,
	}
}

// Run transfers the resolved format to the artifact directory, emitting
// progress through the tracker: zero or more Downloading events, then
// Finished and Completed on success or a single Failed otherwise.
//
// Run blocks for the whole transfer; callers that must keep serving other
// work invoke it on a worker goroutine.
func (o *Orchestrator) Run(ctx context.Context, info *media.Info, f media.Format, links LinkBuilder, tracker *progress.Tracker) (*media.DownloadResult, error) {
	result, err := o.run(ctx, info, f, links, tracker)
	if err != nil {
		classified := apierr.Classify(err)
		logger.LogError("Download run failed", err,
			zap.String("video_id", info.ID),
			zap.String("quality", f.QualityLabel))
		tracker.Failed(classified)
		return nil, classified
	}
	tracker.Finished(result.Filename)
	tracker.Completed(result)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, info *media.Info, f media.Format, links LinkBuilder, tracker *progress.Tracker) (*media.DownloadResult, error) {
	if err := o.store.EnsureDir(); err != nil {
		return nil, fmt.Errorf("preparing artifact directory: %w", err)
	}

	filename := o.artifactName(info, f)
	finalPath := o.store.ArtifactPath(filename)
	// Each run writes to its own part file, so concurrent runs for the same
	// video never clobber each other mid-transfer.
	partPath := finalPath + ".part-" + uuid.NewString()[:8]

	stream, size, err := o.transfer.Stream(ctx, info.ID, f.Itag)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if size <= 0 {
		size = f.ContentLength
	}

	out, err := os.Create(partPath)
	if err != nil {
		return nil, fmt.Errorf("creating part file: %w", err)
	}

	written, err := io.Copy(io.MultiWriter(out, newProgressWriter(size, tracker)), stream)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return nil, fmt.Errorf("transferring media: %w", err)
	}

	if err := os.Rename(partPath, finalPath); err != nil {
		os.Remove(partPath)
		return nil, fmt.Errorf("placing artifact: %w", err)
	}

	// The extractor's size estimate can be wrong; trust the filesystem.
	if stat, err := os.Stat(finalPath); err == nil {
		written = stat.Size()
	}

	o.store.SaveArtifact(uuid.NewString(), &model.DownloadedFile{
		Filename: filename,
		FilePath: finalPath,
		Size:     written,
		VideoID:  info.ID,
	})

	logger.LogInfo("Download completed",
		zap.String("video_id", info.ID),
		zap.String("filename", filename),
		zap.Int64("size", written))

	return &media.DownloadResult{
		Success:  true,
		Filename: filename,
		Path:     finalPath,
		Size:     written,
		SizeText: media.SizeString(written),
		Link:     links(filename),
	}, nil
}

// artifactName derives the artifact filename from the video title and the
// selected quality.
func (o *Orchestrator) artifactName(info *media.Info, f media.Format) string {
	title := validator.SanitizeFilename(info.Title)
	if title == "" {
		title = info.ID
	}
	name := fmt.Sprintf("%s%s %s.%s", o.filenamePrefix, title, f.QualityLabel, f.Extension)
	return validator.TruncateFilename(name, maxFilenameLen)
}
