package handler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/download"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError renders a classified failure. Client faults carry their
// detail; server faults are logged and reach the caller as a generic error.
func respondError(c *gin.Context, err error) {
	classified := apierr.Classify(err)
	status := apierr.Status(classified.Kind)
	if status >= 500 {
		logger.LogError("Request failed", err, zap.String("path", c.Request.URL.Path))
	} else {
		logger.LogWarn("Request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.String("kind", string(classified.Kind)))
	}
	c.JSON(status, errorBody(classified, status))
}

func errorBody(classified *apierr.Error, status int) model.ErrorResponse {
	return model.ErrorResponse{
		Error:     string(classified.Kind),
		Message:   classified.PublicMessage(),
		Code:      status,
		Available: classified.Available,
	}
}

func formatFraction(fraction float64) string {
	if fraction <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// artifactLinkBuilder builds the public URL of a completed artifact. A
// configured static server wins over the API's own static mount.
func artifactLinkBuilder(c *gin.Context, cfg *model.ServerConfig) download.LinkBuilder {
	base := cfg.StaticServerURL
	if base == "" {
		base = cfg.BaseURL
	}
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	base = strings.TrimSuffix(base, "/")
	return func(filename string) string {
		return base + "/static/media/" + url.PathEscape(filename)
	}
}
