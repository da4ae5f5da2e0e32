package types

// TypeCode identifies a value's document type. The numbering follows the
// BSON element type bytes so stored documents and values agree.
type TypeCode int

const (
	TYPE_FLOAT TypeCode = 1
	TYPE_STR   TypeCode = 2
	TYPE_DOC   TypeCode = 3
	TYPE_LIST  TypeCode = 4
	TYPE_BOOL  TypeCode = 8
	TYPE_NULL  TypeCode = 10
	TYPE_INT   TypeCode = 18
)

// String returns the string representation of the type code
func (t TypeCode) String() string {
	switch t {
	case TYPE_FLOAT:
		return "FLOAT"
	case TYPE_STR:
		return "STR"
	case TYPE_DOC:
		return "DOC"
	case TYPE_LIST:
		return "LIST"
	case TYPE_BOOL:
		return "BOOL"
	case TYPE_NULL:
		return "NULL"
	case TYPE_INT:
		return "INT"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric reports whether values of this type take part in arithmetic
func (t TypeCode) IsNumeric() bool {
	return t == TYPE_INT || t == TYPE_FLOAT
}
