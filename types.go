package schemakit

// FieldType is the kind of a field: one of the primitive type names or Nested.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeNumber   FieldType = "number"
	TypeBoolean  FieldType = "boolean"
	TypeObjectID FieldType = "objectId"
	TypeFloat    FieldType = "float"
	TypeNested   FieldType = "nested"
)

// FieldTypes lists every kind in the order editors offer them.
var FieldTypes = []FieldType{TypeString, TypeNumber, TypeBoolean, TypeObjectID, TypeFloat, TypeNested}

// Valid reports whether t belongs to the closed set of kinds.
func (t FieldType) Valid() bool {
	return t == TypeNested || t.IsPrimitive()
}

// IsPrimitive reports whether t is one of the five primitive type names.
func (t FieldType) IsPrimitive() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeObjectID, TypeFloat:
		return true
	}
	return false
}

func (t FieldType) String() string { return string(t) }

// ParseFieldType maps a type name to a FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	t := FieldType(s)
	return t, t.Valid()
}

// Severity expresses how a decode-time finding is handled.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles options for decoding persisted schema objects.
type DecodeOpt struct {
	MaxDepth       int      // 0 disables the depth limit.
	OnDuplicateKey Severity // Ignore, Warn (report and keep last) or Error.
}

// DefaultMaxDepth bounds nesting when decoding through UnmarshalJSON.
const DefaultMaxDepth = 64

// DefaultDecodeOpt is used by (*Object).UnmarshalJSON.
func DefaultDecodeOpt() DecodeOpt {
	return DecodeOpt{MaxDepth: DefaultMaxDepth, OnDuplicateKey: Ignore}
}
