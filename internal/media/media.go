package media

import "fmt"

// MediaKind distinguishes audio-only formats from audio+video ones.
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// Info holds the extracted metadata of a single video. It is the payload
// persisted by the metadata cache, so every field must survive a JSON
// round-trip.
type Info struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Channel        string   `json:"channel"`
	UploaderURL    string   `json:"uploader_url"`
	DurationString string   `json:"duration_string"`
	Thumbnail      string   `json:"thumbnail"`
	Formats        []Format `json:"formats"`
}

// Format describes one downloadable stream of a video.
type Format struct {
	Itag          int       `json:"itag"`
	Kind          MediaKind `json:"kind"`
	QualityLabel  string    `json:"quality_label"`
	MimeType      string    `json:"mime_type"`
	Extension     string    `json:"ext"`
	Bitrate       int       `json:"bitrate"`
	ContentLength int64     `json:"content_length"`
}

// DownloadResult is returned once per orchestration run. It is never
// persisted.
type DownloadResult struct {
	Success  bool   `json:"is_success"`
	Filename string `json:"filename"`
	Path     string `json:"-"`
	Size     int64  `json:"-"`
	SizeText string `json:"filesize"`
	Link     string `json:"link"`
}

// SizeString renders a byte count the way the API reports sizes. Zero means
// the size is not known yet.
func SizeString(size int64) string {
	if size <= 0 {
		return "Unknown"
	}
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
