package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// Ref is one resolved reference-table row.
type Ref struct {
	ID      uuid.UUID
	EntryID string
}

// Resolver resolves feed-supplied codes against the metadata tables. Absence
// is not an error at this layer; callers decide whether to log.
type Resolver interface {
	Has(name string) bool
	ResolveOne(ctx context.Context, tx *gorm.DB, name, code string) (*Ref, error)
	ResolveMany(ctx context.Context, tx *gorm.DB, name, codes string) ([]Ref, error)
}

type resolver struct {
	db     *gorm.DB
	tables map[string]string
	log    *logger.Logger
}

// Registry returns the fixed lookup-name -> table registry covering all known
// reference tables. Built once at startup.
func Registry() map[string]string {
	return map[string]string{
		"PropertyType":    "metadata_property_type",
		"TransactionType": "metadata_transaction_type",
		"OwnershipType":   "metadata_ownership_type",
		"MeasureUnit":     "metadata_measure_unit",
		"Amenity":         "metadata_amenity",
		"HeatingType":     "metadata_heating_type",
		"RoomType":        "metadata_room_type",
		"ParkingType":     "metadata_parking_type",
	}
}

func NewResolver(db *gorm.DB, baseLog *logger.Logger) Resolver {
	return &resolver{
		db:     db,
		tables: Registry(),
		log:    baseLog.With("component", "LookupResolver"),
	}
}

func (r *resolver) Has(name string) bool {
	_, ok := r.tables[name]
	return ok
}

func (r *resolver) ResolveOne(ctx context.Context, tx *gorm.DB, name, code string) (*Ref, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	table, ok := r.tables[name]
	if !ok {
		return nil, nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	var row struct {
		ID              uuid.UUID
		MetadataEntryID string
	}
	err := transaction.WithContext(ctx).
		Table(table).
		Select("id", "metadata_entry_id").
		Where("metadata_entry_id = ?", code).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Ref{ID: row.ID, EntryID: row.MetadataEntryID}, nil
}

// ResolveMany splits the feed's comma-separated id list and resolves each.
// Unresolvable codes are dropped; the result may be empty.
func (r *resolver) ResolveMany(ctx context.Context, tx *gorm.DB, name, codes string) ([]Ref, error) {
	refs := []Ref{}
	for _, code := range strings.Split(codes, ",") {
		ref, err := r.ResolveOne(ctx, tx, name, code)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			r.log.Debug("unresolved lookup code", "lookup", name, "code", strings.TrimSpace(code))
			continue
		}
		refs = append(refs, *ref)
	}
	return refs, nil
}
