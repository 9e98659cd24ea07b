package coerce

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// stubResolver resolves from a fixed name -> code -> id table.
type stubResolver struct {
	entries map[string]map[string]uuid.UUID
}

func (s *stubResolver) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

func (s *stubResolver) ResolveOne(_ context.Context, _ *gorm.DB, name, code string) (*lookup.Ref, error) {
	id, ok := s.entries[name][code]
	if !ok {
		return nil, nil
	}
	return &lookup.Ref{ID: id, EntryID: code}, nil
}

func (s *stubResolver) ResolveMany(ctx context.Context, tx *gorm.DB, name, codes string) ([]lookup.Ref, error) {
	var out []lookup.Ref
	for _, code := range strings.Split(codes, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		ref, _ := s.ResolveOne(ctx, tx, name, code)
		if ref != nil {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func testEngine(t *testing.T, resolver lookup.Resolver) *Engine {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if resolver == nil {
		resolver = &stubResolver{entries: map[string]map[string]uuid.UUID{}}
	}
	return NewEngine(resolver, schema.DefaultMappingConfig(), log)
}

func TestCoerceString(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "mls_number", Kind: schema.KindString}

	vals, refs, issues := e.Coerce(context.Background(), nil, "listing", desc, "X123456")
	if len(refs) != 0 || len(issues) != 0 {
		t.Fatalf("unexpected refs/issues: %v %v", refs, issues)
	}
	if vals["mls_number"] != "X123456" {
		t.Fatalf("unexpected value: %v", vals["mls_number"])
	}
}

func TestCoerceStringTextException(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "public_remarks", Kind: schema.KindString}

	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, map[string]any{"#text": "Bright corner unit"})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if vals["public_remarks"] != "Bright corner unit" {
		t.Fatalf("expected #text unwrap, got %v", vals["public_remarks"])
	}
}

func TestCoerceIntDegradesToNilOnFailure(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "bedrooms_total", Kind: schema.KindInt}

	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, "3")
	if vals["bedrooms_total"] != 3 || len(issues) != 0 {
		t.Fatalf("expected 3, got %v (%v)", vals["bedrooms_total"], issues)
	}

	// Prose in a count field must never reach the numeric column.
	vals, _, issues = e.Coerce(context.Background(), nil, "listing", desc, "3 + den")
	if vals["bedrooms_total"] != nil {
		t.Fatalf("expected nil for unparseable count, got %v", vals["bedrooms_total"])
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
}

func TestCoerceDate(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "listed_on", Kind: schema.KindDate}

	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, "2024-05-17T10:30:00Z")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	parsed, ok := vals["listed_on"].(time.Time)
	if !ok || parsed.Year() != 2024 || parsed.Month() != time.May {
		t.Fatalf("unexpected date: %v", vals["listed_on"])
	}

	vals, _, issues = e.Coerce(context.Background(), nil, "listing", desc, "not a date")
	if vals["listed_on"] != nil {
		t.Fatalf("expected nil for unparseable date, got %v", vals["listed_on"])
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
}

func TestCoerceBoolTriState(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "pool_present", Kind: schema.KindBool}

	cases := []struct {
		in   any
		want any
	}{
		{"true", true},
		{"FALSE", false},
		{"1", true},
		{"0", false},
		{true, true},
		{"maybe", nil},
		{3.14, nil},
	}
	for _, tc := range cases {
		vals, _, _ := e.Coerce(context.Background(), nil, "listing", desc, tc.in)
		if vals["pool_present"] != tc.want {
			t.Fatalf("bool(%#v): expected %v, got %v", tc.in, tc.want, vals["pool_present"])
		}
	}
}

func TestCoerceBareDecimal(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "price", Kind: schema.KindMeasure, Lookup: "MeasureUnit", UnitColumn: "price_unit_id"}

	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, "459900.00")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	d, ok := vals["price"].(decimal.Decimal)
	if !ok || !d.Equal(decimal.RequireFromString("459900")) {
		t.Fatalf("unexpected price: %v", vals["price"])
	}
}

func TestCoerceMeasureSplitsQuantityAndUnit(t *testing.T) {
	unitID := uuid.New()
	resolver := &stubResolver{entries: map[string]map[string]uuid.UUID{
		"MeasureUnit": {"SQFT": unitID},
	}}
	e := testEngine(t, resolver)
	desc := schema.FieldDescriptor{Column: "living_area", Kind: schema.KindMeasure, Lookup: "MeasureUnit", UnitColumn: "living_area_unit_id"}

	raw := map[string]any{"Unit": "SQFT", "#text": "1450.5"}
	vals, refs, issues := e.Coerce(context.Background(), nil, "listing", desc, raw)
	if len(refs) != 0 || len(issues) != 0 {
		t.Fatalf("unexpected refs/issues: %v %v", refs, issues)
	}
	d, ok := vals["living_area"].(decimal.Decimal)
	if !ok || !d.Equal(decimal.RequireFromString("1450.5")) {
		t.Fatalf("unexpected quantity: %v", vals["living_area"])
	}
	if vals["living_area_unit_id"] != unitID {
		t.Fatalf("unexpected unit: %v", vals["living_area_unit_id"])
	}
}

func TestCoerceMeasureUnresolvedUnit(t *testing.T) {
	e := testEngine(t, &stubResolver{entries: map[string]map[string]uuid.UUID{"MeasureUnit": {}}})
	desc := schema.FieldDescriptor{Column: "lot_size", Kind: schema.KindMeasure, Lookup: "MeasureUnit", UnitColumn: "lot_size_unit_id"}

	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, map[string]any{"Unit": "CUBITS", "#text": "12"})
	if vals["lot_size_unit_id"] != nil {
		t.Fatalf("expected nil unit, got %v", vals["lot_size_unit_id"])
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %v", issues)
	}
	if _, ok := vals["lot_size"].(decimal.Decimal); !ok {
		t.Fatalf("quantity must still land, got %v", vals["lot_size"])
	}
}

func TestCoerceSingleLookup(t *testing.T) {
	id := uuid.New()
	resolver := &stubResolver{entries: map[string]map[string]uuid.UUID{
		"PropertyType": {"300": id},
	}}
	e := testEngine(t, resolver)
	desc := schema.FieldDescriptor{Column: "property_type_id", Kind: schema.KindSingleLookup, Lookup: "PropertyType"}

	// Bare code.
	vals, _, issues := e.Coerce(context.Background(), nil, "listing", desc, "300")
	if vals["property_type_id"] != id || len(issues) != 0 {
		t.Fatalf("unexpected: %v (%v)", vals["property_type_id"], issues)
	}

	// Mapping shape keyed by ID.
	vals, _, _ = e.Coerce(context.Background(), nil, "listing", desc, map[string]any{"LookupName": "PropertyType", "ID": "300"})
	if vals["property_type_id"] != id {
		t.Fatalf("mapping shape failed: %v", vals["property_type_id"])
	}

	// Unresolved code lands nil plus an issue.
	vals, _, issues = e.Coerce(context.Background(), nil, "listing", desc, "999")
	if vals["property_type_id"] != nil || len(issues) != 1 {
		t.Fatalf("unresolved code: %v (%v)", vals["property_type_id"], issues)
	}
}

func TestCoerceLookupNameFixup(t *testing.T) {
	id := uuid.New()
	resolver := &stubResolver{entries: map[string]map[string]uuid.UUID{
		"HeatingType": {"FA": id},
	}}
	e := testEngine(t, resolver)
	desc := schema.FieldDescriptor{
		Column: "heating_type", Kind: schema.KindMultiLookup, Lookup: "HeatingType",
		JoinTable: "listing_heating_type", JoinParentCol: "listing_id", JoinRefCol: "heating_type_id",
	}

	// Feed supplies "Heating Type" with a space; the fixup maps it onto the
	// registry name.
	raw := map[string]any{"LookupName": "Heating Type", "ID": "FA"}
	_, refs, issues := e.Coerce(context.Background(), nil, "listing", desc, raw)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(refs) != 1 || refs[0].ID != id {
		t.Fatalf("unexpected refs: %v", refs)
	}
}

func TestCoerceMultiLookupSplitsCodes(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	resolver := &stubResolver{entries: map[string]map[string]uuid.UUID{
		"Amenity": {"POOL": a, "GYM": b},
	}}
	e := testEngine(t, resolver)
	desc := schema.FieldDescriptor{
		Column: "amenities", Kind: schema.KindMultiLookup, Lookup: "Amenity",
		JoinTable: "listing_amenity", JoinParentCol: "listing_id", JoinRefCol: "amenity_id",
	}

	_, refs, issues := e.Coerce(context.Background(), nil, "listing", desc, "POOL, GYM, SAUNA")
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 resolved refs, got %v", refs)
	}
}

func TestCoerceUnknownLookupName(t *testing.T) {
	e := testEngine(t, nil)
	desc := schema.FieldDescriptor{Column: "type_id", Kind: schema.KindSingleLookup, Lookup: "RoomType"}

	vals, refs, issues := e.Coerce(context.Background(), nil, "room", desc, map[string]any{"LookupName": "NoSuchLookup", "ID": "1"})
	if len(issues) != 0 || len(refs) != 0 {
		t.Fatalf("unknown lookup must be silent: %v %v", issues, refs)
	}
	if vals["type_id"] != nil {
		t.Fatalf("expected nil, got %v", vals["type_id"])
	}
}

func TestParseFeedTime(t *testing.T) {
	if _, ok := ParseFeedTime("Tue, 02 Jan 2024 15:04:05 MST"); !ok {
		t.Fatal("expected RFC1123 to parse")
	}
	if _, ok := ParseFeedTime("garbage"); ok {
		t.Fatal("expected garbage to fail")
	}
	now := time.Now()
	got, ok := ParseFeedTime(now)
	if !ok || !got.Equal(now) {
		t.Fatal("expected native time to pass through")
	}
}
