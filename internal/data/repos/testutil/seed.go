package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/domain/metadata"
	"github.com/openhaus/listings-backend/internal/feed/lookup"
)

// SeedLookup inserts one row into the lookup table registered under name and
// returns its generated id. Rows land in the ambient db (not a test tx) so
// the resolver can see them from any connection.
func SeedLookup(tb testing.TB, db *gorm.DB, name, entryID, shortValue string) uuid.UUID {
	tb.Helper()

	table, ok := lookup.Registry()[name]
	if !ok {
		tb.Fatalf("unknown lookup %q", name)
	}

	id := uuid.New()
	now := time.Now().UTC()
	row := metadata.Entry{
		ID:              id,
		MetadataEntryID: entryID,
		ShortValue:      shortValue,
		LongValue:       shortValue,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Table(table).Create(&row).Error; err != nil {
		tb.Fatalf("seed lookup %s/%s: %v", name, entryID, err)
	}
	tb.Cleanup(func() {
		_ = db.Table(table).Where("id = ?", id).Delete(&metadata.Entry{}).Error
	})
	return id
}
