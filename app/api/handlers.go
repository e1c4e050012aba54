package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-relay/app/cfg"
)

// statusClientClosedRequest is the nginx convention for a request the client abandoned.
const statusClientClosedRequest = 499

func NewHandler(runner RunnerInterface, c *cfg.Cfg) *Handler {
	return &Handler{
		runner: runner,
		cfg:    c,
	}
}

// GetFeed runs the pipeline once and returns the document. Nothing is written to disk.
func (h *Handler) GetFeed(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("Run cancelled", "error", err)
			c.AbortWithStatus(statusClientClosedRequest)
			return
		}
		slog.Error("Run failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(result.Items)))
	c.Header("X-Run-ID", result.RunID)

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(result.XML))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.cfg.Version,
		"feeds":     len(h.cfg.SourceFeeds),
		"max_items": h.cfg.MaxItems,
		"translate": h.cfg.TranslateTo != "",
		"images":    h.cfg.WithImages,
	}

	if h.cfg.TranslateTo != "" {
		health["translate_to"] = h.cfg.TranslateTo
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "RSS Relay",
		"version":     h.cfg.Version,
		"description": "RSS/Atom aggregator producing a single normalized RSS 2.0 feed",
		"endpoints": map[string]string{
			"feed":   "/rss.xml",
			"health": "/health",
		},
	})
}
