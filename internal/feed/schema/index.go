package schema

// FieldDescriptor describes one destination field: where a coerced value
// lands and how it is typed. Nothing feed-specific lives here; the index is
// purely a reflection of the destination schema.
type FieldDescriptor struct {
	// Column is the destination column, or the logical field name for
	// multi-valued lookups that live in a join table.
	Column string
	Kind   StorageKind

	// Lookup names the reference table registered with the resolver, for
	// lookup and measure kinds.
	Lookup string

	// UnitColumn is the column receiving the resolved unit reference of a
	// measure field.
	UnitColumn string

	// Join* describe the many-to-many table for multi-valued lookups.
	JoinTable     string
	JoinParentCol string
	JoinRefCol    string
}

// TableIndex maps destination field names to their descriptors.
type TableIndex map[string]FieldDescriptor

// Index maps destination tables to their field indexes. Built once at process
// start and read-only thereafter.
type Index map[string]TableIndex

func (i Index) Table(name string) (TableIndex, bool) {
	t, ok := i[name]
	return t, ok
}

// Field resolves a destination field name within a table, retrying with an
// "_id" suffix so feed keys like PropertyType land on property_type_id.
func (i Index) Field(table, name string) (FieldDescriptor, bool) {
	t, ok := i[table]
	if !ok {
		return FieldDescriptor{}, false
	}
	if d, ok := t[name]; ok {
		return d, true
	}
	d, ok := t[name+"_id"]
	return d, ok
}

func scalar(column string, kind StorageKind) FieldDescriptor {
	return FieldDescriptor{Column: column, Kind: kind}
}

func single(column, lookupName string) FieldDescriptor {
	return FieldDescriptor{Column: column, Kind: KindSingleLookup, Lookup: lookupName}
}

func measure(column string) FieldDescriptor {
	return FieldDescriptor{
		Column:     column,
		Kind:       KindMeasure,
		Lookup:     "MeasureUnit",
		UnitColumn: column + "_unit_id",
	}
}

func multi(name, lookupName, joinTable, refCol string) FieldDescriptor {
	return FieldDescriptor{
		Column:        name,
		Kind:          KindMultiLookup,
		Lookup:        lookupName,
		JoinTable:     joinTable,
		JoinParentCol: "listing_id",
		JoinRefCol:    refCol,
	}
}

// NewIndex builds the schema field index for every destination table. This is
// the statically declared equivalent of a reflection pass over the models in
// internal/domain: build once, dispatch many. index_test.go keeps it honest
// against the GORM models.
func NewIndex() Index {
	return Index{
		"listing": {
			"ddf_id":              scalar("ddf_id", KindString),
			"mls_number":          scalar("mls_number", KindString),
			"public_remarks":      scalar("public_remarks", KindString),
			"bedrooms_total":      scalar("bedrooms_total", KindInt),
			"bathroom_total":      scalar("bathroom_total", KindInt),
			"listed_on":           scalar("listed_on", KindDate),
			"pool_present":        scalar("pool_present", KindBool),
			"fireplace_present":   scalar("fireplace_present", KindBool),
			"price":               measure("price"),
			"lot_size":            measure("lot_size"),
			"living_area":         measure("living_area"),
			"property_type_id":    single("property_type_id", "PropertyType"),
			"transaction_type_id": single("transaction_type_id", "TransactionType"),
			"ownership_type_id":   single("ownership_type_id", "OwnershipType"),
			"amenities":           multi("amenities", "Amenity", "listing_amenity", "amenity_id"),
			"heating_type":        multi("heating_type", "HeatingType", "listing_heating_type", "heating_type_id"),
		},
		"address": {
			"street_address": scalar("street_address", KindString),
			"city":           scalar("city", KindString),
			"province":       scalar("province", KindString),
			"postal_code":    scalar("postal_code", KindString),
			"country":        scalar("country", KindString),
			"neighbourhood":  scalar("neighbourhood", KindString),
		},
		"room": {
			"type_id":   single("type_id", "RoomType"),
			"width":     measure("width"),
			"length":    measure("length"),
			"level":     scalar("level", KindString),
			"dimension": scalar("dimension", KindString),
			"text":      scalar("text", KindString),
		},
		"open_house": {
			"start_date_time": scalar("start_date_time", KindDate),
			"end_date_time":   scalar("end_date_time", KindDate),
			"comments":        scalar("comments", KindString),
		},
		"photo": {
			"sequence_id":     scalar("sequence_id", KindInt),
			"last_updated":    scalar("last_updated", KindDate),
			"large_photo_url": scalar("large_photo_url", KindString),
			"photo_url":       scalar("photo_url", KindString),
			"thumbnail_url":   scalar("thumbnail_url", KindString),
		},
		"parking_space": {
			"type_id": single("type_id", "ParkingType"),
			"name":    scalar("name", KindString),
			"spaces":  scalar("spaces", KindInt),
		},
	}
}
