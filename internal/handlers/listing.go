package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listingrepo "github.com/openhaus/listings-backend/internal/data/repos/listing"
)

// ListingHandler is the simple read surface the external collaborator uses
// once records are normalized.
type ListingHandler struct {
	listings listingrepo.ListingRepo
	children listingrepo.ChildGraphRepo
}

func NewListingHandler(listings listingrepo.ListingRepo, children listingrepo.ChildGraphRepo) *ListingHandler {
	return &ListingHandler{listings: listings, children: children}
}

// GET /api/listings/:ddfID
func (h *ListingHandler) GetByDdfID(c *gin.Context) {
	ddfID := strings.TrimSpace(c.Param("ddfID"))
	if ddfID == "" {
		RespondError(c, http.StatusBadRequest, "invalid_ddf_id", errors.New("empty ddf id"))
		return
	}

	rows, err := h.listings.GetByDdfIDs(c.Request.Context(), nil, []string{ddfID})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "listing_lookup_failed", err)
		return
	}
	if len(rows) == 0 {
		RespondError(c, http.StatusNotFound, "listing_not_found", errors.New("no listing for ddf id"))
		return
	}
	l := rows[0]
	ids := []uuid.UUID{l.ID}

	ctx := c.Request.Context()
	address, err := h.children.GetAddressByListingIDs(ctx, nil, ids)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "child_lookup_failed", err)
		return
	}
	rooms, err := h.children.GetRoomsByListingIDs(ctx, nil, ids)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "child_lookup_failed", err)
		return
	}
	openHouses, err := h.children.GetOpenHousesByListingIDs(ctx, nil, ids)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "child_lookup_failed", err)
		return
	}
	photos, err := h.children.GetPhotosByListingIDs(ctx, nil, ids)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "child_lookup_failed", err)
		return
	}
	parking, err := h.children.GetParkingByListingIDs(ctx, nil, ids)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "child_lookup_failed", err)
		return
	}

	RespondOK(c, gin.H{
		"listing":     l,
		"address":     firstOrNil(address),
		"rooms":       rooms,
		"open_houses": openHouses,
		"photos":      photos,
		"parking":     parking,
	})
}

func firstOrNil[T any](items []*T) *T {
	if len(items) == 0 {
		return nil
	}
	return items[0]
}
