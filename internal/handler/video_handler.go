package handler

import (
	"net/http"
	"strconv"

	"github.com/SpaceXe-tech/yt-api/internal/extractor"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/internal/service"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoHandler handles search and metadata requests
type VideoHandler struct {
	mediaService *service.MediaService
	searcher     extractor.Searcher
	cfg          *model.Config
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(ms *service.MediaService, searcher extractor.Searcher, cfg *model.Config) *VideoHandler {
	return &VideoHandler{
		mediaService: ms,
		searcher:     searcher,
		cfg:          cfg,
	}
}

// SearchVideos handles GET /api/v1/search
func (h *VideoHandler) SearchVideos(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_request",
			Message: "Search query is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	limit := h.searchLimit(c.Query("limit"))
	results, err := h.searcher.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:   "not_found",
			Message: "No video matched that query - " + query,
			Code:    http.StatusNotFound,
		})
		return
	}

	resp := model.SearchVideosResponse{Query: query, Results: make([]model.SearchVideo, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, model.SearchVideo{
			ID:       r.ID,
			Title:    r.Title,
			Duration: r.Duration,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// searchLimit clamps the requested result count to the configured cap
func (h *VideoHandler) searchLimit(raw string) int {
	limit := 10
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if cap := h.cfg.Extractor.SearchLimit; cap > 0 && limit > cap {
		limit = cap
	}
	return limit
}

// GetVideoMetadata handles POST /api/v1/metadata
func (h *VideoHandler) GetVideoMetadata(c *gin.Context) {
	var payload model.VideoMetadataPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.LogWarn("Invalid metadata request", zap.Error(err))
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "invalid_request",
			Message: "Video URL is required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	metadata, err := h.mediaService.Metadata(c.Request.Context(), payload.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metadata)
}

// HealthCheck handles GET /api/health
func (h *VideoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "yt-api",
	})
}
