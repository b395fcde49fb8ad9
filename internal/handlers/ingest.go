package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/ingest"
)

// IngestHandler accepts scraped listing batches from collector clients.
type IngestHandler struct {
	service *ingest.Service
	timeout time.Duration
	logger  *logrus.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(service *ingest.Service, timeout time.Duration, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{service: service, timeout: timeout, logger: logger}
}

// PostIngest runs the full pipeline for one batch. The summary is returned
// even on failure so the client sees what was and was not persisted.
func (h *IngestHandler) PostIngest(c *gin.Context) {
	var req ingest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	h.logger.WithFields(logrus.Fields{
		"province": req.Province,
		"listings": len(req.Listings),
	}).Info("Ingestion batch received")

	summary, err := h.service.Run(ctx, &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, summary)
		return
	}

	c.JSON(http.StatusOK, summary)
}
