package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
	"github.com/openhaus/listings-backend/internal/services"
)

type IngestHandler struct {
	ingest services.IngestService
}

func NewIngestHandler(ingest services.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// POST /internal/feed/batches
func (h *IngestHandler) EnqueueBatch(c *gin.Context) {
	var batch []feed.Record
	if err := c.ShouldBindJSON(&batch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_batch", err)
		return
	}

	key, err := h.ingest.EnqueueBatch(c.Request.Context(), batch)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "invalid_batch", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "staging_failed", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"key": key, "records": len(batch)})
}

// POST /internal/ingest/run
func (h *IngestHandler) Run(c *gin.Context) {
	var opts services.RunOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_options", err)
			return
		}
	}

	report, err := h.ingest.Run(c.Request.Context(), opts)
	if err != nil {
		if errors.Is(err, apperr.ErrLockHeld) {
			RespondError(c, http.StatusConflict, "run_in_progress", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "run_failed", err)
		return
	}

	RespondOK(c, gin.H{"report": report})
}

// GET /internal/ingest/last
func (h *IngestHandler) LastRun(c *gin.Context) {
	report := h.ingest.LastReport()
	if report == nil {
		RespondError(c, http.StatusNotFound, "no_runs", errors.New("no completed ingestion pass"))
		return
	}
	RespondOK(c, gin.H{"report": report})
}
