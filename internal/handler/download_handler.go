package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/internal/progress"
	"github.com/SpaceXe-tech/yt-api/internal/service"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DownloadHandler handles the synchronous and streaming download paths
type DownloadHandler struct {
	mediaService *service.MediaService
	cfg          *model.Config
	upgrader     websocket.Upgrader
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(ms *service.MediaService, cfg *model.Config) *DownloadHandler {
	return &DownloadHandler{
		mediaService: ms,
		cfg:          cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// StartDownload handles POST /api/v1/download. The transfer runs on a worker
// goroutine; the handler waits for the terminal event.
func (h *DownloadHandler) StartDownload(c *gin.Context) {
	var payload model.MediaDownloadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.LogWarn("Invalid download request", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   string(apierr.KindValidation),
			Message: "url and quality fields are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	sink := progress.NewBuffered()
	tracker := progress.NewTracker(sink)

	go h.mediaService.Download(c.Request.Context(), &payload, artifactLinkBuilder(c, &h.cfg.Server), tracker)

	terminal := sink.Wait()
	if terminal.Kind == progress.EventFailed {
		respondError(c, terminal.Err)
		return
	}
	result := terminal.Result
	c.JSON(http.StatusOK, model.MediaDownloadResponse{
		IsSuccess: result.Success,
		Filename:  result.Filename,
		Filesize:  result.SizeText,
		Link:      result.Link,
	})
}

// DownloadWS handles GET /api/v1/download/ws. The session accepts one JSON
// request and emits {status, detail} frames until the terminal event.
func (h *DownloadHandler) DownloadWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.LogWarn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var payload model.MediaDownloadPayload
	if err := conn.ReadJSON(&payload); err != nil || payload.URL == "" || payload.Quality == "" {
		// Schema-invalid request: report and close without touching the
		// cache or the orchestrator.
		verr := apierr.New(apierr.KindValidation, "url and quality fields are required")
		conn.WriteJSON(model.WebsocketFrame{
			Status: string(progress.EventFailed),
			Detail: errorBody(verr, apierr.Status(verr.Kind)),
		})
		return
	}

	sink := progress.NewStreamed()
	tracker := progress.NewTracker(sink)

	// The run is never cancelled by a peer disconnect; it finishes and its
	// output is discarded. Only the server timeout bounds it.
	runCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(h.cfg.Server.Timeout)*time.Second)
	links := artifactLinkBuilder(c, &h.cfg.Server)
	go func() {
		defer cancel()
		h.mediaService.Download(runCtx, &payload, links, tracker)
	}()

	// The read loop only watches for the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sink.PeerGone()
				return
			}
		}
	}()

	for ev := range sink.Events() {
		if err := conn.WriteJSON(h.frameFor(ev)); err != nil {
			logger.LogDebug("Websocket peer gone mid-stream", zap.Error(err))
			sink.PeerGone()
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *DownloadHandler) frameFor(ev progress.Event) model.WebsocketFrame {
	frame := model.WebsocketFrame{Status: string(ev.Kind)}
	switch ev.Kind {
	case progress.EventDownloading:
		frame.Detail = gin.H{
			"progress": formatFraction(ev.Fraction),
			"speed":    ev.Rate,
			"eta":      ev.ETA,
		}
	case progress.EventFinished:
		frame.Detail = gin.H{"filename": ev.Filename}
	case progress.EventCompleted:
		frame.Detail = model.MediaDownloadResponse{
			IsSuccess: ev.Result.Success,
			Filename:  ev.Result.Filename,
			Filesize:  ev.Result.SizeText,
			Link:      ev.Result.Link,
		}
	case progress.EventFailed:
		frame.Detail = errorBody(ev.Err, apierr.Status(ev.Err.Kind))
	}
	return frame
}
