package feed

// Record is one raw feed record: a nested, loosely typed mapping keyed by the
// feed's PascalCase field names. Records are transient and consumed once.
type Record = map[string]any

// NormalizeChildPayload flattens the three shapes the feed uses for child
// payloads into a uniform slice: a bare list passes through, a bare mapping
// becomes a one-element list, and a mapping wrapped under wrapper is unwrapped
// first. Anything else normalizes to nil.
func NormalizeChildPayload(v any, wrapper string) []Record {
	switch val := v.(type) {
	case []any:
		out := make([]Record, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []Record:
		return val
	case map[string]any:
		if wrapper != "" {
			if inner, ok := val[wrapper]; ok {
				return NormalizeChildPayload(inner, "")
			}
		}
		return []Record{val}
	default:
		return nil
	}
}

// Empty reports whether a raw feed value carries no information. The mapper
// skips empty values outright: the feed sends full snapshots and never clears
// a field by sending an empty string.
func Empty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
