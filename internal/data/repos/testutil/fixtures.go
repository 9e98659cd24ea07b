package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openhaus/listings-backend/internal/domain"
)

func SeedListing(tb testing.TB, ctx context.Context, tx *gorm.DB, ddfID string) *types.Listing {
	tb.Helper()
	l := &types.Listing{
		ID:           uuid.New(),
		DdfID:        ddfID,
		MlsNumber:    "X" + ddfID,
		IsActive:     true,
		CreationDate: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed listing: %v", err)
	}
	return l
}

func SeedAddress(tb testing.TB, ctx context.Context, tx *gorm.DB, listingID uuid.UUID) *types.Address {
	tb.Helper()
	a := &types.Address{
		ID:            uuid.New(),
		ListingID:     listingID,
		StreetAddress: "12 Main St",
		City:          "Ottawa",
		Province:      "Ontario",
		PostalCode:    "K1A0A1",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return a
}

func SeedPhoto(tb testing.TB, ctx context.Context, tx *gorm.DB, listingID uuid.UUID, sequence int) *types.Photo {
	tb.Helper()
	p := &types.Photo{
		ID:         uuid.New(),
		ListingID:  listingID,
		SequenceID: sequence,
		PhotoURL:   "https://cdn.example/p.jpg",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed photo: %v", err)
	}
	return p
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
