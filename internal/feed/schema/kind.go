package schema

// StorageKind is the closed set of destination storage kinds the coercion
// engine dispatches over. One handler exists per variant; there is no
// string-compare fallback.
type StorageKind int

const (
	KindString StorageKind = iota
	KindInt
	KindBool
	KindDate
	KindDecimal
	// KindMeasure is a composite: a decimal quantity plus a measurement-unit
	// lookup stored next to it.
	KindMeasure
	KindSingleLookup
	KindMultiLookup
)

func (k StorageKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindDecimal:
		return "decimal"
	case KindMeasure:
		return "measure"
	case KindSingleLookup:
		return "single_lookup"
	case KindMultiLookup:
		return "multi_lookup"
	default:
		return "unknown"
	}
}

// IsLookup reports whether the kind resolves against a reference table.
func (k StorageKind) IsLookup() bool {
	return k == KindSingleLookup || k == KindMultiLookup || k == KindMeasure
}
