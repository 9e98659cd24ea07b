package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/mapper"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/platform/dbctx"
)

// ChildSpec declares one dependent table fed from a named sub-payload of the
// parent record. Wrapper names the sub-key the feed sometimes nests elements
// under (e.g. Rooms containing {"Room": [...]}).
type ChildSpec struct {
	FeedKey string
	Wrapper string
	Table   string
}

// DefaultChildSpecs covers the full child graph of a listing. Order among
// sibling subtrees is irrelevant; none of them cross-reference each other.
func DefaultChildSpecs() []ChildSpec {
	return []ChildSpec{
		{FeedKey: "Address", Wrapper: "", Table: "address"},
		{FeedKey: "Rooms", Wrapper: "Room", Table: "room"},
		{FeedKey: "Photo", Wrapper: "PropertyPhoto", Table: "photo"},
		{FeedKey: "OpenHouse", Wrapper: "Event", Table: "open_house"},
		{FeedKey: "ParkingSpaces", Wrapper: "Parking", Table: "parking_space"},
	}
}

// joinTables derives the many-to-many tables owned by the parent from the
// schema index.
func joinTables(index schema.Index) []string {
	tables := []string{}
	listingIndex, ok := index.Table("listing")
	if !ok {
		return tables
	}
	for _, desc := range listingIndex {
		if desc.Kind == schema.KindMultiLookup && desc.JoinTable != "" {
			tables = append(tables, desc.JoinTable)
		}
	}
	return tables
}

// rebuildChildren replaces the whole dependent graph of one listing. On the
// update path every existing child row is deleted first; the feed supplies
// full snapshots, never deltas, so there is no per-child diffing. Runs inside
// the caller's transaction so readers never observe a rebuild mid-flight.
func (r *Reconciler) rebuildChildren(dbc dbctx.Context, listingID uuid.UUID, rec feed.Record, multi []mapper.MultiValue, deleteFirst bool) error {
	if deleteFirst {
		for _, spec := range r.childSpecs {
			if err := dbc.Tx.WithContext(dbc.Ctx).
				Exec("DELETE FROM "+spec.Table+" WHERE listing_id = ?", listingID).Error; err != nil {
				return fmt.Errorf("delete %s children: %w", spec.Table, err)
			}
		}
		for _, join := range r.joinTables {
			if err := dbc.Tx.WithContext(dbc.Ctx).
				Exec("DELETE FROM "+join+" WHERE listing_id = ?", listingID).Error; err != nil {
				return fmt.Errorf("clear %s joins: %w", join, err)
			}
		}
	}

	now := time.Now()

	for _, spec := range r.childSpecs {
		payload, ok := rec[spec.FeedKey]
		if !ok || feed.Empty(payload) {
			continue
		}
		for _, item := range feed.NormalizeChildPayload(payload, spec.Wrapper) {
			cols, childMulti, _ := r.mapper.MapRecord(dbc.Ctx, dbc.Tx, spec.Table, item)
			if len(childMulti) > 0 {
				r.log.Debug("dropping multi-lookup values on child table", "table", spec.Table)
			}
			if len(cols) == 0 {
				continue
			}
			cols["id"] = uuid.New()
			cols["listing_id"] = listingID
			cols["created_at"] = now
			cols["updated_at"] = now
			if err := dbc.Tx.WithContext(dbc.Ctx).Table(spec.Table).Create(cols).Error; err != nil {
				return fmt.Errorf("create %s child: %w", spec.Table, err)
			}
		}
	}

	for _, mv := range multi {
		seen := map[uuid.UUID]bool{}
		for _, ref := range mv.Refs {
			if seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true
			row := map[string]any{
				mv.Desc.JoinParentCol: listingID,
				mv.Desc.JoinRefCol:    ref.ID,
			}
			if err := dbc.Tx.WithContext(dbc.Ctx).Table(mv.Desc.JoinTable).Create(row).Error; err != nil {
				return fmt.Errorf("create %s join: %w", mv.Desc.JoinTable, err)
			}
		}
	}

	return nil
}
