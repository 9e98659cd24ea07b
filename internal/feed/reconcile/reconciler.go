package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openhaus/listings-backend/internal/clients/geocode"
	"github.com/openhaus/listings-backend/internal/data/db"
	listingrepo "github.com/openhaus/listings-backend/internal/data/repos/listing"
	types "github.com/openhaus/listings-backend/internal/domain"
	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/coerce"
	"github.com/openhaus/listings-backend/internal/feed/mapper"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/observability"
	"github.com/openhaus/listings-backend/internal/platform/dbctx"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// Reconciler drives the per-record state machine: natural-key lookup, change
// detection, and the create/update/skip decision, followed by the child graph
// rebuild and the best-effort geocode enrichment.
type Reconciler struct {
	txRunner    db.TxRunner
	listingRepo listingrepo.ListingRepo
	mapper      *mapper.Mapper
	geocoder    geocode.Geocoder
	metrics     *observability.Metrics
	childSpecs  []ChildSpec
	joinTables  []string
	log         *logger.Logger
}

func NewReconciler(
	txRunner db.TxRunner,
	listingRepo listingrepo.ListingRepo,
	m *mapper.Mapper,
	index schema.Index,
	geocoder geocode.Geocoder,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) *Reconciler {
	return &Reconciler{
		txRunner:    txRunner,
		listingRepo: listingRepo,
		mapper:      m,
		geocoder:    geocoder,
		metrics:     metrics,
		childSpecs:  DefaultChildSpecs(),
		joinTables:  joinTables(index),
		log:         baseLog.With("component", "UpsertReconciler"),
	}
}

// ReconcileRecord processes one feed record end to end. The parent write and
// the whole child-graph rebuild share one transaction; a crash can never
// leave a listing with a partially rebuilt graph.
func (r *Reconciler) ReconcileRecord(ctx context.Context, rec feed.Record, fullRefresh bool, c *Counters) error {
	ddfID := naturalKey(rec)
	if ddfID == "" {
		return fmt.Errorf("feed record has no natural key")
	}
	log := r.log.With("ddf_id", ddfID)

	existing, err := r.lookupExisting(ctx, ddfID)
	if err != nil {
		return fmt.Errorf("natural key lookup: %w", err)
	}

	// An unparseable LastUpdated treats the record as changed rather than
	// substituting a sentinel date; the stored last_modified stays NULL.
	lastUpdated, parsed := coerce.ParseFeedTime(rec["LastUpdated"])
	if !parsed && rec["LastUpdated"] != nil {
		log.Warn("unparseable LastUpdated, treating record as changed", "last_updated", rec["LastUpdated"])
	}

	if existing != nil && !fullRefresh && parsed &&
		existing.LastModified != nil && existing.LastModified.Equal(lastUpdated) {
		c.Unchanged++
		r.metrics.IncRecord("unchanged")
		r.enrichGeocode(ctx, existing.ID, rec, c, log)
		return nil
	}

	var listingID uuid.UUID
	err = r.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cols, multi, _ := r.mapper.MapRecord(dbc.Ctx, dbc.Tx, "listing", rec)

		if raw, err := json.Marshal(rec); err == nil {
			cols["raw_payload"] = datatypes.JSON(raw)
		}
		cols["is_active"] = true
		if parsed {
			cols["last_modified"] = lastUpdated
		} else {
			cols["last_modified"] = nil
		}

		now := time.Now()
		cols["updated_at"] = now

		if existing == nil {
			listingID = uuid.New()
			cols["id"] = listingID
			cols["creation_date"] = now
			cols["created_at"] = now
			if err := dbc.Tx.WithContext(dbc.Ctx).Table("listing").Create(cols).Error; err != nil {
				return fmt.Errorf("create listing: %w", err)
			}
			return r.rebuildChildren(dbc, listingID, rec, multi, false)
		}

		listingID = existing.ID
		// creation_date never regresses; stamp it only if it was never set.
		if existing.CreationDate.IsZero() {
			cols["creation_date"] = now
		}
		delete(cols, "id")
		if err := dbc.Tx.WithContext(dbc.Ctx).
			Table("listing").
			Where("id = ?", listingID).
			Updates(cols).Error; err != nil {
			return fmt.Errorf("update listing: %w", err)
		}
		return r.rebuildChildren(dbc, listingID, rec, multi, true)
	})
	if err != nil {
		return err
	}

	if existing == nil {
		c.New++
		r.metrics.IncRecord("new")
		log.Debug("listing created")
	} else {
		c.Updated++
		r.metrics.IncRecord("updated")
		log.Debug("listing updated")
	}

	r.enrichGeocode(ctx, listingID, rec, c, log)
	return nil
}

func (r *Reconciler) lookupExisting(ctx context.Context, ddfID string) (*types.Listing, error) {
	rows, err := r.listingRepo.GetByDdfIDs(ctx, nil, []string{ddfID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// enrichGeocode runs after every record regardless of outcome. Failures are
// logged and counted, never propagated.
func (r *Reconciler) enrichGeocode(ctx context.Context, listingID uuid.UUID, rec feed.Record, c *Counters, log *logger.Logger) {
	query := addressQuery(rec)
	if query == "" {
		c.MissingAddress++
		r.metrics.IncGeocode("missing_address")
		return
	}
	if r.geocoder == nil {
		return
	}

	c.GeocodeRequested++
	r.metrics.IncGeocode("requested")

	result, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		r.metrics.IncGeocode("failed")
		log.Warn("geocode enrichment failed", "error", err)
		return
	}
	if result == nil {
		r.metrics.IncGeocode("failed")
		log.Debug("geocode returned no match", "query", query)
		return
	}

	if err := r.listingRepo.SetGeocode(ctx, nil, listingID, result.Latitude, result.Longitude); err != nil {
		r.metrics.IncGeocode("failed")
		log.Warn("geocode persist failed", "error", err)
		return
	}
	c.GeocodeSucceeded++
	r.metrics.IncGeocode("succeeded")
}

func naturalKey(rec feed.Record) string {
	v, ok := rec["ID"]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// addressQuery builds the enrichment query from the record's address payload.
func addressQuery(rec feed.Record) string {
	payload, ok := rec["Address"]
	if !ok || feed.Empty(payload) {
		return ""
	}
	items := feed.NormalizeChildPayload(payload, "")
	if len(items) == 0 {
		return ""
	}
	addr := items[0]

	parts := []string{}
	for _, key := range []string{"StreetAddress", "City", "Province", "PostalCode"} {
		v, ok := addr[key]
		if !ok || feed.Empty(v) {
			continue
		}
		if m, isMap := v.(map[string]any); isMap {
			v = m["#text"]
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s != "" && s != "<nil>" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
