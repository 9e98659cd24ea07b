package metadata

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openhaus/listings-backend/internal/data/repos/testutil"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
)

func TestEntryRepoSeedAndGet(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewEntryRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	suffix := fmt.Sprint(time.Now().UnixNano())
	entries := []SeedEntry{
		{MetadataEntryID: "pt-" + suffix, ShortValue: "House", LongValue: "Single Family House"},
		{MetadataEntryID: "pt2-" + suffix, ShortValue: "Condo", LongValue: "Condominium"},
		{MetadataEntryID: ""},
	}

	seeded, err := repo.Seed(ctx, tx, "PropertyType", entries)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if seeded != 2 {
		t.Fatalf("expected 2 seeded (blank id skipped), got %d", seeded)
	}

	refs, err := repo.GetByEntryIDs(ctx, tx, "PropertyType", []string{"pt-" + suffix, "pt2-" + suffix, "missing"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %v", refs)
	}
}

func TestEntryRepoSeedIsIdempotent(t *testing.T) {
	// Runs against the ambient db, not a test tx: the duplicate insert error
	// would poison a surrounding transaction.
	gdb := testutil.DB(t)
	repo := NewEntryRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	entryID := fmt.Sprintf("amen-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = gdb.Exec("DELETE FROM metadata_amenity WHERE metadata_entry_id = ?", entryID).Error
	})
	entries := []SeedEntry{{MetadataEntryID: entryID, ShortValue: "Pool"}}

	if _, err := repo.Seed(ctx, nil, "Amenity", entries); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	seeded, err := repo.Seed(ctx, nil, "Amenity", entries)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded != 0 {
		t.Fatalf("rerun must keep the existing row, got %d seeded", seeded)
	}

	refs, err := repo.GetByEntryIDs(ctx, nil, "Amenity", []string{entryID})
	if err != nil || len(refs) != 1 {
		t.Fatalf("expected exactly 1 row after rerun: refs=%v err=%v", refs, err)
	}
}

func TestEntryRepoUnknownLookup(t *testing.T) {
	gdb := testutil.DB(t)
	repo := NewEntryRepo(gdb, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.Seed(ctx, nil, "NoSuchLookup", []SeedEntry{{MetadataEntryID: "x"}}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := repo.GetByEntryIDs(ctx, nil, "NoSuchLookup", []string{"x"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
