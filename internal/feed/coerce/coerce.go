package coerce

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// Issue records one recovered coercion or resolution failure, keeping the
// reason available for structured logging instead of swallowing it.
type Issue struct {
	Table  string
	Field  string
	Reason string
}

// Engine converts raw feed values into typed destination values. Every branch
// degrades to a nil value plus an Issue on failure; a single bad field never
// aborts processing of the rest of the record.
type Engine struct {
	resolver lookup.Resolver
	cfg      schema.MappingConfig
	log      *logger.Logger
}

func NewEngine(resolver lookup.Resolver, cfg schema.MappingConfig, baseLog *logger.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		cfg:      cfg,
		log:      baseLog.With("component", "CoercionEngine"),
	}
}

// Coerce dispatches one raw value for one destination field. Scalar and
// single-lookup results land in vals keyed by column; multi-lookup results
// come back as refs for the caller to route into the join table.
func (e *Engine) Coerce(ctx context.Context, tx *gorm.DB, table string, desc schema.FieldDescriptor, raw any) (vals map[string]any, refs []lookup.Ref, issues []Issue) {
	vals = map[string]any{}

	defer func() {
		if r := recover(); r != nil {
			vals = map[string]any{desc.Column: nil}
			refs = nil
			issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("panic during coercion: %v", r)})
			e.log.Error("coercion panic recovered", "table", table, "field", desc.Column, "panic", r)
		}
	}()

	rawMap, isMap := raw.(map[string]any)

	// Composite measure: {"Unit": code, "#text": numeric string} splits into
	// the quantity under the column and a unit reference next to it.
	if isMap && !hasKey(rawMap, "LookupName") {
		if unitCode, ok := rawMap["Unit"]; ok {
			return e.coerceMeasure(ctx, tx, table, desc, rawMap, unitCode)
		}
	}

	// Explicit lookup name supplied by the feed itself, subject to the known
	// naming fixups.
	if isMap {
		if ln, ok := rawMap["LookupName"]; ok {
			name := e.cfg.FixupLookupName(stringify(ln))
			return e.coerceLookup(ctx, tx, table, desc, name, rawMap)
		}
	}

	switch desc.Kind {
	case schema.KindString:
		v := raw
		if isMap && e.cfg.IsTextException(table, desc.Column) {
			if inner, ok := rawMap["#text"]; ok {
				v = inner
			}
		}
		vals[desc.Column] = stringify(v)

	case schema.KindInt:
		n, ok := toInt(raw)
		if ok {
			vals[desc.Column] = n
		} else {
			// The feed occasionally sends prose where a count belongs
			// ("3 + den"). The destination column is numeric, so the value
			// degrades to NULL; writing the raw string would make the row
			// unreadable and abort the record on insert.
			vals[desc.Column] = nil
			issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("integer parse failed for %q", stringify(raw))})
		}

	case schema.KindDate:
		t, ok := toTime(raw)
		if ok {
			vals[desc.Column] = t
		} else {
			vals[desc.Column] = nil
			issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("date parse failed for %q", stringify(raw))})
		}

	case schema.KindBool:
		vals[desc.Column] = toBool(raw)

	case schema.KindDecimal, schema.KindMeasure:
		// A measure without a Unit shape carries the bare quantity.
		d, ok := toDecimal(raw)
		if ok {
			vals[desc.Column] = d
		} else {
			vals[desc.Column] = nil
			issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("decimal parse failed for %q", stringify(raw))})
		}

	case schema.KindSingleLookup, schema.KindMultiLookup:
		return e.coerceLookup(ctx, tx, table, desc, desc.Lookup, raw)

	default:
		vals[desc.Column] = stringify(raw)
		issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("unhandled storage kind %s, stringified", desc.Kind)})
		e.log.Warn("unhandled storage kind", "table", table, "field", desc.Column, "kind", desc.Kind.String())
	}

	return vals, refs, issues
}

func (e *Engine) coerceMeasure(ctx context.Context, tx *gorm.DB, table string, desc schema.FieldDescriptor, rawMap map[string]any, unitCode any) (map[string]any, []lookup.Ref, []Issue) {
	vals := map[string]any{}
	var issues []Issue

	d, ok := toDecimal(rawMap["#text"])
	if ok {
		vals[desc.Column] = d
	} else {
		vals[desc.Column] = nil
		issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("measure quantity parse failed for %q", stringify(rawMap["#text"]))})
	}

	unitColumn := desc.UnitColumn
	if unitColumn == "" {
		unitColumn = desc.Column + "_unit_id"
	}

	ref, err := e.resolver.ResolveOne(ctx, tx, "MeasureUnit", stringify(unitCode))
	if err != nil {
		vals[unitColumn] = nil
		issues = append(issues, Issue{Table: table, Field: unitColumn, Reason: fmt.Sprintf("measure unit resolution errored: %v", err)})
	} else if ref == nil {
		vals[unitColumn] = nil
		issues = append(issues, Issue{Table: table, Field: unitColumn, Reason: fmt.Sprintf("unresolved measure unit code %q", stringify(unitCode))})
	} else {
		vals[unitColumn] = ref.ID
	}

	return vals, nil, issues
}

func (e *Engine) coerceLookup(ctx context.Context, tx *gorm.DB, table string, desc schema.FieldDescriptor, name string, raw any) (map[string]any, []lookup.Ref, []Issue) {
	vals := map[string]any{}
	var issues []Issue

	// No resolvable lookup name: the feed did not supply enough information
	// to resolve the reference. Not an error.
	if name == "" || !e.resolver.Has(name) {
		if desc.Kind != schema.KindMultiLookup {
			vals[desc.Column] = nil
		}
		e.log.Debug("no resolvable lookup name", "table", table, "field", desc.Column, "lookup", name)
		return vals, nil, issues
	}

	if desc.Kind == schema.KindMultiLookup {
		refs, err := e.resolver.ResolveMany(ctx, tx, name, lookupCode(raw))
		if err != nil {
			issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("lookup resolution errored: %v", err)})
			return vals, nil, issues
		}
		return vals, refs, issues
	}

	ref, err := e.resolver.ResolveOne(ctx, tx, name, lookupCode(raw))
	if err != nil {
		vals[desc.Column] = nil
		issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("lookup resolution errored: %v", err)})
		return vals, nil, issues
	}
	if ref == nil {
		vals[desc.Column] = nil
		issues = append(issues, Issue{Table: table, Field: desc.Column, Reason: fmt.Sprintf("unresolved %s code %q", name, lookupCode(raw))})
		return vals, nil, issues
	}
	vals[desc.Column] = ref.ID
	return vals, nil, issues
}

// lookupCode extracts the feed code from the shapes a lookup value arrives
// in: a bare string, or a mapping keyed by ID or #text.
func lookupCode(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if id, ok := v["ID"]; ok {
			return strings.TrimSpace(stringify(id))
		}
		if txt, ok := v["#text"]; ok {
			return strings.TrimSpace(stringify(txt))
		}
		return ""
	default:
		return strings.TrimSpace(stringify(raw))
	}
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// toTime is permissive: a native time passes through unchanged, strings go
// through dateparse, anything else fails.
func toTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		t, err := dateparse.ParseAny(strings.TrimSpace(val))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// toBool is tri-state: recognized truthy and falsy tokens map to a value,
// anything else maps to nil upstream.
func toBool(v any) any {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		switch val {
		case 1:
			return true
		case 0:
			return false
		}
		return nil
	case float64:
		switch val {
		case 1:
			return true
		case 0:
			return false
		}
		return nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
		return nil
	default:
		return nil
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// ParseFeedTime exposes the permissive date parser for callers outside the
// engine (the reconciler's LastUpdated handling).
func ParseFeedTime(v any) (time.Time, bool) {
	return toTime(v)
}
