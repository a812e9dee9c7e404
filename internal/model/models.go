package model

import "time"

// SearchVideosResponse is the payload of GET /api/v1/search
type SearchVideosResponse struct {
	Query   string        `json:"query"`
	Results []SearchVideo `json:"results"`
}

// SearchVideo is one shallow search hit
type SearchVideo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// VideoMetadataPayload is the request body of POST /api/v1/metadata
type VideoMetadataPayload struct {
	URL string `json:"url" binding:"required"`
}

// VideoMetadataResponse describes a video and its downloadable qualities
type VideoMetadataResponse struct {
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Channel            string         `json:"channel"`
	UploaderURL        string         `json:"uploader_url"`
	DurationString     string         `json:"duration_string"`
	Thumbnail          string         `json:"thumbnail"`
	Audio              []FormatOption `json:"audio"`
	Video              []FormatOption `json:"video"`
	DefaultAudioFormat string         `json:"default_audio_format"`
}

// FormatOption is one selectable quality with its (possibly unknown) size
type FormatOption struct {
	Quality string `json:"quality"`
	Size    string `json:"size"`
}

// MediaDownloadPayload is the request body of POST /api/v1/download and of
// the one-shot websocket request
type MediaDownloadPayload struct {
	URL     string `json:"url" binding:"required"`
	Quality string `json:"quality" binding:"required"`
	Bitrate int    `json:"bitrate"`
}

// MediaDownloadResponse is the terminal payload of a successful download
type MediaDownloadResponse struct {
	IsSuccess bool   `json:"is_success"`
	Filename  string `json:"filename"`
	Filesize  string `json:"filesize"`
	Link      string `json:"link"`
}

// WebsocketFrame is one progress frame on the streaming download session
type WebsocketFrame struct {
	Status string `json:"status"` // downloading | finished | completed | error
	Detail any    `json:"detail"`
}

// DownloadedFile tracks downloaded artifacts for cleanup
type DownloadedFile struct {
	ID        string
	Filename  string
	FilePath  string
	Size      int64
	CreatedAt time.Time
	ExpiresAt time.Time
	VideoID   string
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Code      int      `json:"code"`
	Available []string `json:"available,omitempty"`
}
