package thing

// DataType identifies the value type described by a DataSchema.
type DataType string

// Data types for interaction schemas.
const (
	TypeBoolean DataType = "boolean"
	TypeInteger DataType = "integer"
	TypeNumber  DataType = "number"
	TypeString  DataType = "string"
	TypeObject  DataType = "object"
	TypeArray   DataType = "array"
	TypeNull    DataType = "null"
)

// Valid reports whether the data type is one of the defined types.
func (t DataType) Valid() bool {
	switch t {
	case TypeBoolean, TypeInteger, TypeNumber, TypeString, TypeObject, TypeArray, TypeNull:
		return true
	}
	return false
}

// DataSchema describes the shape of a property value, an action input or
// output, or an event payload.
type DataSchema struct {
	// Type is the value type. Empty means unconstrained.
	Type DataType `json:"type,omitempty"`

	// Unit is an optional unit of measure (e.g. "celsius", "percent").
	Unit string `json:"unit,omitempty"`

	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`

	// Minimum and Maximum bound numeric values when set.
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`
}

// Clone returns a deep copy of the schema. Returns nil for a nil schema.
func (s *DataSchema) Clone() *DataSchema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Enum != nil {
		c.Enum = make([]any, len(s.Enum))
		copy(c.Enum, s.Enum)
	}
	if s.Minimum != nil {
		m := *s.Minimum
		c.Minimum = &m
	}
	if s.Maximum != nil {
		m := *s.Maximum
		c.Maximum = &m
	}
	return &c
}
