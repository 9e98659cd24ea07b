package mapper

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/coerce"
	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

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
		ref, _ := s.ResolveOne(ctx, tx, name, strings.TrimSpace(code))
		if ref != nil {
			out = append(out, *ref)
		}
	}
	return out, nil
}

func testMapper(t *testing.T, resolver lookup.Resolver) *Mapper {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if resolver == nil {
		resolver = &stubResolver{entries: map[string]map[string]uuid.UUID{}}
	}
	cfg := schema.DefaultMappingConfig()
	engine := coerce.NewEngine(resolver, cfg, log)
	return New(schema.NewIndex(), cfg, engine, log)
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"MlsNumber":        "mls_number",
		"BedroomsTotal":    "bedrooms_total",
		"LargePhotoURL":    "large_photo_url",
		"PhotoURL":         "photo_url",
		"ThumbnailURL":     "thumbnail_url",
		"SequenceId":       "sequence_id",
		"StartDateTime":    "start_date_time",
		"PublicRemarks":    "public_remarks",
		"City":             "city",
		"already_snake":    "already_snake",
		"FireplacePresent": "fireplace_present",
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Fatalf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapRecordScalarsAndRenames(t *testing.T) {
	m := testMapper(t, nil)

	raw := feed.Record{
		"ID":            "21212121",
		"MlsNumber":     "X555",
		"BedroomsTotal": "4",
		"PublicRemarks": map[string]any{"#text": "Sunny"},
	}
	cols, multi, issues := m.MapRecord(context.Background(), nil, "listing", raw)
	if len(multi) != 0 || len(issues) != 0 {
		t.Fatalf("unexpected multi/issues: %v %v", multi, issues)
	}
	if cols["ddf_id"] != "21212121" {
		t.Fatalf("rename ID -> ddf_id failed: %v", cols)
	}
	if cols["mls_number"] != "X555" || cols["bedrooms_total"] != 4 {
		t.Fatalf("unexpected cols: %v", cols)
	}
	if cols["public_remarks"] != "Sunny" {
		t.Fatalf("text exception failed: %v", cols["public_remarks"])
	}
}

func TestMapRecordSkipsEmptyValues(t *testing.T) {
	m := testMapper(t, nil)

	raw := feed.Record{
		"MlsNumber":     "",
		"PublicRemarks": map[string]any{},
		"BedroomsTotal": nil,
	}
	cols, _, _ := m.MapRecord(context.Background(), nil, "listing", raw)
	if len(cols) != 0 {
		t.Fatalf("empty values must be skipped, got %v", cols)
	}
}

func TestMapRecordSkipsChildPayloads(t *testing.T) {
	m := testMapper(t, nil)

	raw := feed.Record{
		"MlsNumber": "X1",
		"Photo": map[string]any{
			"PropertyPhoto": []any{map[string]any{"SequenceId": "1"}},
		},
		"Rooms": map[string]any{"Room": []any{}},
	}
	cols, multi, issues := m.MapRecord(context.Background(), nil, "listing", raw)
	if len(issues) != 0 || len(multi) != 0 {
		t.Fatalf("unexpected multi/issues: %v %v", multi, issues)
	}
	if len(cols) != 1 || cols["mls_number"] != "X1" {
		t.Fatalf("child payloads must not map to columns: %v", cols)
	}
}

func TestMapRecordRoutesLookups(t *testing.T) {
	propertyID, amenityA, amenityB := uuid.New(), uuid.New(), uuid.New()
	resolver := &stubResolver{entries: map[string]map[string]uuid.UUID{
		"PropertyType": {"300": propertyID},
		"Amenity":      {"POOL": amenityA, "GYM": amenityB},
	}}
	m := testMapper(t, resolver)

	raw := feed.Record{
		"PropertyType": "300",
		"Amenities":    "POOL,GYM",
	}
	cols, multi, issues := m.MapRecord(context.Background(), nil, "listing", raw)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if cols["property_type_id"] != propertyID {
		t.Fatalf("single lookup failed: %v", cols)
	}
	if len(multi) != 1 {
		t.Fatalf("expected one multi value, got %v", multi)
	}
	mv := multi[0]
	if mv.Desc.JoinTable != "listing_amenity" || len(mv.Refs) != 2 {
		t.Fatalf("unexpected multi value: %+v", mv)
	}
}
