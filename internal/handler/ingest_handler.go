package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a38062an/uk-econ-insight-agent/internal/ingest"
)

// Ingester runs one corpus refresh cycle unless one is already in flight.
type Ingester interface {
	TryRun(ctx context.Context) (ingest.Stats, bool)
}

type IngestHandler struct {
	pipeline Ingester
}

func NewIngestHandler(pipeline Ingester) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// PostIngest runs a cycle inline. The pipeline admits one cycle at a time
// across all triggers; a request arriving while one is in flight gets a 409.
func (h *IngestHandler) PostIngest(c *gin.Context) {
	stats, ok := h.pipeline.TryRun(c.Request.Context())
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Ingestion already running"})
		return
	}

	c.JSON(http.StatusOK, IngestResponse{
		FeedsFetched: stats.FeedsFetched,
		FeedsFailed:  stats.FeedsFailed,
		Articles:     stats.Articles,
		Saved:        stats.Saved,
		Duplicated:   stats.Duplicated,
		Errors:       stats.Errors,
	})
}
