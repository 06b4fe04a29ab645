package form3

import (
	"fmt"
	"runtime"
)

// ParamError reports an invalid parameter passed to a field constructor.
type ParamError struct {
	// Func is the qualified name of the constructor.
	Func string
	Line int
	Msg  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Func, e.Line, e.Msg)
}

// errParam returns a *ParamError for the calling function.
func errParam(msg string) error {
	var pc [1]uintptr
	if runtime.Callers(2, pc[:]) == 0 {
		return &ParamError{Func: "?", Msg: msg}
	}
	frame, _ := runtime.CallersFrames(pc[:]).Next()
	return &ParamError{Func: frame.Function, Line: frame.Line, Msg: msg}
}
