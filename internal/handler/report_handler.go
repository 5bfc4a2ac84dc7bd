package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

type ReportStore interface {
	ListReports(ctx context.Context, limit, offset int) ([]model.DocumentChunk, error)
	ReportTotal(ctx context.Context) (int, error)
	LatestReport(ctx context.Context) (*model.DocumentChunk, error)
	ChunkTotal(ctx context.Context) (int, error)
}

type ReportHandler struct {
	repository ReportStore
}

func NewReportHandler(repository ReportStore) *ReportHandler {
	return &ReportHandler{repository: repository}
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	reports, err := h.repository.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		slog.Error("error fetching reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.ReportTotal(c.Request.Context())
	if err != nil {
		slog.Error("error fetching report total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	reportRes := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		reportRes = append(reportRes, ReportResponse{
			ID:          r.ID,
			Content:     r.Content,
			PublishedAt: r.PublishedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, ReportsResponse{
		Reports: reportRes,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	report, err := h.repository.LatestReport(c.Request.Context())
	if err != nil {
		slog.Error("error fetching latest report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reports yet"})
		return
	}

	c.JSON(http.StatusOK, ReportResponse{
		ID:          report.ID,
		Content:     report.Content,
		PublishedAt: report.PublishedAt.Format(time.RFC3339),
	})
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.ChunkTotal(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramValue := c.Query(name)

	if paramValue == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramValue)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramValue, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 50
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
