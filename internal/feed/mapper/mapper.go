package mapper

import (
	"context"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/openhaus/listings-backend/internal/feed"
	"github.com/openhaus/listings-backend/internal/feed/coerce"
	"github.com/openhaus/listings-backend/internal/feed/lookup"
	"github.com/openhaus/listings-backend/internal/feed/schema"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// MultiValue is one resolved multi-lookup field, routed by the caller into
// its join table.
type MultiValue struct {
	Desc schema.FieldDescriptor
	Refs []lookup.Ref
}

// Mapper splits one raw feed record into scalar/FK columns and multi-lookup
// values, using the schema field index and the static rename table.
type Mapper struct {
	index  schema.Index
	cfg    schema.MappingConfig
	engine *coerce.Engine
	log    *logger.Logger
}

func New(index schema.Index, cfg schema.MappingConfig, engine *coerce.Engine, baseLog *logger.Logger) *Mapper {
	return &Mapper{
		index:  index,
		cfg:    cfg,
		engine: engine,
		log:    baseLog.With("component", "RecordMapper"),
	}
}

// MapRecord maps every known field of raw into destination values for table.
// Empty values are skipped outright (the feed never clears a field by sending
// an empty value); nested payloads under keys that are not schema fields are
// child-table payloads consumed elsewhere and skipped silently.
func (m *Mapper) MapRecord(ctx context.Context, tx *gorm.DB, table string, raw feed.Record) (cols map[string]any, multi []MultiValue, issues []coerce.Issue) {
	cols = map[string]any{}

	for key, value := range raw {
		if feed.Empty(value) {
			continue
		}

		name, renamed := m.cfg.Renames[key]
		if !renamed {
			name = SnakeCase(key)
		}

		desc, known := m.index.Field(table, name)
		if !known {
			switch value.(type) {
			case map[string]any, []any:
				// Child-table payload, consumed by the graph rebuilder.
			default:
				m.log.Debug("skipping unknown feed field", "table", table, "key", key)
			}
			continue
		}

		vals, refs, fieldIssues := m.engine.Coerce(ctx, tx, table, desc, value)
		for _, issue := range fieldIssues {
			m.log.Warn("field coercion degraded", "table", issue.Table, "field", issue.Field, "reason", issue.Reason)
		}
		issues = append(issues, fieldIssues...)

		if desc.Kind == schema.KindMultiLookup {
			multi = append(multi, MultiValue{Desc: desc, Refs: refs})
			continue
		}
		for col, v := range vals {
			cols[col] = v
		}
	}

	return cols, multi, issues
}

// SnakeCase converts a feed key like LargePhotoURL or SequenceId to its
// destination column form.
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
