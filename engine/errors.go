package engine

import (
	"fmt"

	"mooagg/types"
)

// ExecError is a failure while applying a pipeline. Unknown operators
// surface here, never at compile time.
type ExecError struct {
	Code  types.ErrorCode
	Op    string
	Stage int // 1-based, 0 when not known
	Msg   string
}

func (e *ExecError) Error() string {
	where := e.Op
	if e.Stage > 0 {
		where = fmt.Sprintf("stage %d: %s", e.Stage, e.Op)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s (%s)", where, e.Code.Message(), e.Msg)
	}
	return fmt.Sprintf("%s: %s", where, e.Code.Message())
}

func execErr(code types.ErrorCode, op, format string, args ...any) *ExecError {
	return &ExecError{Code: code, Op: op, Msg: fmt.Sprintf(format, args...)}
}
