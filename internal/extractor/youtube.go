package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
	"github.com/SpaceXe-tech/yt-api/internal/videoid"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

// YouTube implements Extractor, Searcher and Transfer against youtube.com.
type YouTube struct {
	client     *youtube.Client
	httpClient *http.Client
	memo       *searchMemo
}

// NewYouTube creates the collaborator with the given request timeout.
func NewYouTube(timeout time.Duration) *YouTube {
	httpClient := &http.Client{Timeout: timeout}
	return &YouTube{
		client:     &youtube.Client{HTTPClient: httpClient},
		httpClient: httpClient,
		memo:       newSearchMemo(100),
	}
}

// Extract fetches and normalizes the full metadata of one video.
func (y *YouTube) Extract(ctx context.Context, videoID string) (*media.Info, error) {
	video, err := y.client.GetVideoContext(ctx, videoid.WatchURL(videoID))
	if err != nil {
		return nil, apierr.Wrap(apierr.KindExtraction, "metadata extraction failed", err)
	}

	info := &media.Info{
		ID:             video.ID,
		Title:          video.Title,
		Channel:        channelName(video),
		UploaderURL:    uploaderURL(video),
		DurationString: durationString(video.Duration),
		Thumbnail:      bestThumbnail(video),
		Formats:        convertFormats(video.Formats),
	}
	logger.LogInfo("Video metadata extracted",
		zap.String("video_id", info.ID),
		zap.String("title", info.Title),
		zap.Int("formats", len(info.Formats)))
	return info, nil
}

// Stream opens the byte stream of the format identified by itag. Metadata is
// re-fetched so the stream URL is always fresh, even when the cached format
// list has expired signatures.
func (y *YouTube) Stream(ctx context.Context, videoID string, itag int) (io.ReadCloser, int64, error) {
	video, err := y.client.GetVideoContext(ctx, videoid.WatchURL(videoID))
	if err != nil {
		return nil, 0, apierr.Wrap(apierr.KindExtraction, "metadata extraction failed", err)
	}
	for i := range video.Formats {
		f := &video.Formats[i]
		if f.ItagNo == itag {
			adjustChunkSize(y.client, f.ContentLength)
			return y.client.GetStreamContext(ctx, video, f)
		}
	}
	return nil, 0, apierr.New(apierr.KindTransfer,
		fmt.Sprintf("format %d is no longer offered for video %s", itag, videoID))
}

const (
	minChunkSize     int64 = 256 * 1024
	maxChunkSize     int64 = 2 * 1024 * 1024
	targetChunkCount int64 = 64
)

// adjustChunkSize keeps progress updates frequent on small files without
// spawning thousands of requests on large ones.
func adjustChunkSize(client *youtube.Client, contentLength int64) {
	if contentLength <= 0 {
		return
	}
	chunk := contentLength / targetChunkCount
	if chunk < minChunkSize {
		chunk = minChunkSize
	} else if chunk > maxChunkSize {
		chunk = maxChunkSize
	}
	client.ChunkSize = chunk
}

// channelName falls back from the channel handle to the author field. The
// fallback policy lives here and nowhere else.
func channelName(video *youtube.Video) string {
	if video.Author != "" {
		return video.Author
	}
	return strings.TrimPrefix(video.ChannelHandle, "@")
}

func uploaderURL(video *youtube.Video) string {
	if video.ChannelHandle != "" {
		return "https://www.youtube.com/" + video.ChannelHandle
	}
	if video.ChannelID != "" {
		return "https://www.youtube.com/channel/" + video.ChannelID
	}
	return ""
}

func durationString(d time.Duration) string {
	total := int(d.Seconds())
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func bestThumbnail(video *youtube.Video) string {
	var url string
	var area uint
	for _, t := range video.Thumbnails {
		if a := t.Width * t.Height; a >= area {
			url, area = t.URL, a
		}
	}
	return url
}

func convertFormats(formats youtube.FormatList) []media.Format {
	out := make([]media.Format, 0, len(formats))
	for i := range formats {
		f := &formats[i]
		converted, ok := convertFormat(f)
		if !ok {
			continue
		}
		out = append(out, converted)
	}
	return out
}

func convertFormat(f *youtube.Format) (media.Format, bool) {
	kind := media.KindVideo
	label := normalizeVideoLabel(f.QualityLabel)
	if f.Width == 0 && f.Height == 0 {
		if f.AudioChannels == 0 {
			return media.Format{}, false
		}
		kind = media.KindAudio
		label = audioQualityLabel(f.AudioQuality)
	}
	if label == "" {
		return media.Format{}, false
	}
	return media.Format{
		Itag:          f.ItagNo,
		Kind:          kind,
		QualityLabel:  label,
		MimeType:      f.MimeType,
		Extension:     extensionFor(f.MimeType, kind),
		Bitrate:       f.Bitrate,
		ContentLength: f.ContentLength,
	}, true
}

// normalizeVideoLabel strips the frame-rate suffix ("720p60" -> "720p") so
// labels line up with the fixed video quality set.
func normalizeVideoLabel(label string) string {
	if i := strings.Index(label, "p"); i >= 0 {
		return label[:i+1]
	}
	return label
}

func audioQualityLabel(raw string) string {
	switch raw {
	case "AUDIO_QUALITY_ULTRALOW":
		return "ultralow"
	case "AUDIO_QUALITY_LOW":
		return "low"
	case "AUDIO_QUALITY_MEDIUM", "AUDIO_QUALITY_HIGH":
		return "medium"
	}
	return ""
}

func extensionFor(mimeType string, kind media.MediaKind) string {
	mediaType := mimeType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	switch strings.TrimSpace(mediaType) {
	case "video/webm", "audio/webm":
		return "webm"
	case "video/mp4":
		return "mp4"
	case "audio/mp4":
		return "m4a"
	case "video/3gpp":
		return "3gp"
	}
	if kind == media.KindAudio {
		return "m4a"
	}
	return "mp4"
}
