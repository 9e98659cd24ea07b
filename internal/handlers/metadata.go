package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	metadatarepo "github.com/openhaus/listings-backend/internal/data/repos/metadata"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
	"github.com/openhaus/listings-backend/internal/services"
)

type MetadataHandler struct {
	metadata services.MetadataService
}

func NewMetadataHandler(metadata services.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadata: metadata}
}

type seedRequest struct {
	Lookup  string                   `json:"lookup"`
	Entries []metadatarepo.SeedEntry `json:"entries"`
}

// POST /internal/metadata/seed
func (h *MetadataHandler) Seed(c *gin.Context) {
	var req seedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_seed_request", err)
		return
	}

	seeded, err := h.metadata.Seed(c.Request.Context(), req.Lookup, req.Entries)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, "unknown_lookup", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "seed_failed", err)
		return
	}

	RespondOK(c, gin.H{"seeded": seeded})
}
