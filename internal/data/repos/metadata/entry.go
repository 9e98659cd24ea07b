package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/platform/apperr"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// SeedEntry is one reference row to upsert into a lookup table.
type SeedEntry struct {
	MetadataEntryID string `json:"metadata_entry_id"`
	ShortValue      string `json:"short_value"`
	LongValue       string `json:"long_value"`
}

// EntryRepo writes and reads lookup tables by registry name. Ingestion only
// reads; writes belong to the out-of-band seeding process.
type EntryRepo interface {
	Seed(ctx context.Context, tx *gorm.DB, lookupName string, entries []SeedEntry) (int, error)
	GetByEntryIDs(ctx context.Context, tx *gorm.DB, lookupName string, entryIDs []string) ([]lookup.Ref, error)
}

type entryRepo struct {
	db     *gorm.DB
	tables map[string]string
	log    *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	repoLog := baseLog.With("repo", "MetadataEntryRepo")
	return &entryRepo{db: db, tables: lookup.Registry(), log: repoLog}
}

func (r *entryRepo) Seed(ctx context.Context, tx *gorm.DB, lookupName string, entries []SeedEntry) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	table, ok := r.tables[lookupName]
	if !ok {
		return 0, fmt.Errorf("%w: unknown lookup %q", apperr.ErrInvalidArgument, lookupName)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now()
	seeded := 0
	for _, e := range entries {
		if e.MetadataEntryID == "" {
			continue
		}
		row := map[string]any{
			"id":                uuid.New(),
			"metadata_entry_id": e.MetadataEntryID,
			"short_value":       e.ShortValue,
			"long_value":        e.LongValue,
			"created_at":        now,
			"updated_at":        now,
		}
		res := transaction.WithContext(ctx).Table(table).Create(&row)
		if res.Error != nil {
			// Seeding reruns hit the unique index on metadata_entry_id; keep
			// the existing row.
			r.log.Debug("seed entry skipped", "lookup", lookupName, "entry_id", e.MetadataEntryID, "error", res.Error)
			continue
		}
		seeded++
	}
	return seeded, nil
}

func (r *entryRepo) GetByEntryIDs(ctx context.Context, tx *gorm.DB, lookupName string, entryIDs []string) ([]lookup.Ref, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	table, ok := r.tables[lookupName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown lookup %q", apperr.ErrInvalidArgument, lookupName)
	}

	var rows []struct {
		ID              uuid.UUID
		MetadataEntryID string
	}
	if len(entryIDs) == 0 {
		return []lookup.Ref{}, nil
	}

	if err := transaction.WithContext(ctx).
		Table(table).
		Select("id", "metadata_entry_id").
		Where("metadata_entry_id IN ?", entryIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	refs := make([]lookup.Ref, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, lookup.Ref{ID: row.ID, EntryID: row.MetadataEntryID})
	}
	return refs, nil
}
