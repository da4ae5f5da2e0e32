package types

// ErrorCode classifies an execution failure raised while evaluating a
// compiled pipeline. The compiler itself never produces these.
type ErrorCode int

const (
	E_NONE   ErrorCode = 0
	E_TYPE   ErrorCode = 1
	E_DIV    ErrorCode = 2
	E_ARGS   ErrorCode = 3
	E_INVARG ErrorCode = 4
	E_FLOAT  ErrorCode = 5
	E_OPNF   ErrorCode = 6
)

// String returns the symbolic name of the error code
func (e ErrorCode) String() string {
	switch e {
	case E_NONE:
		return "E_NONE"
	case E_TYPE:
		return "E_TYPE"
	case E_DIV:
		return "E_DIV"
	case E_ARGS:
		return "E_ARGS"
	case E_INVARG:
		return "E_INVARG"
	case E_FLOAT:
		return "E_FLOAT"
	case E_OPNF:
		return "E_OPNF"
	default:
		return "E_UNKNOWN"
	}
}

// Message returns a human-readable message for an error code
func (e ErrorCode) Message() string {
	switch e {
	case E_NONE:
		return "No error"
	case E_TYPE:
		return "Type mismatch"
	case E_DIV:
		return "Division by zero"
	case E_ARGS:
		return "Incorrect number of arguments"
	case E_INVARG:
		return "Invalid argument"
	case E_FLOAT:
		return "Floating-point arithmetic error"
	case E_OPNF:
		return "Unrecognized expression operator"
	default:
		return "Unknown error"
	}
}

// ErrorFromString converts a string like "E_TYPE" to an ErrorCode
func ErrorFromString(s string) (ErrorCode, bool) {
	switch s {
	case "E_NONE":
		return E_NONE, true
	case "E_TYPE":
		return E_TYPE, true
	case "E_DIV":
		return E_DIV, true
	case "E_ARGS":
		return E_ARGS, true
	case "E_INVARG":
		return E_INVARG, true
	case "E_FLOAT":
		return E_FLOAT, true
	case "E_OPNF":
		return E_OPNF, true
	default:
		return E_NONE, false
	}
}

// Value is the interface all document values implement
type Value interface {
	Type() TypeCode
	String() string   // source literal representation
	Equal(Value) bool // Deep equality
	Truthy() bool     // aggregation truthiness rules
	Native() any      // plain Go value as stored in a document
}
