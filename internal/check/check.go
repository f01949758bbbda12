// Package check implements the integrity checks guarding programming errors
// in the block matrix code. Checks run unless the module is built with the
// "nocheck" tag; Fail always panics regardless of the tag.
package check

import "fmt"

// Violation is the panic value raised by a failed check.
type Violation struct {
	Err error
	Msg string
}

func (v *Violation) Error() string {
	if v.Msg == "" {
		return v.Err.Error()
	}
	return fmt.Sprintf("%v: %s", v.Err, v.Msg)
}

func (v *Violation) Unwrap() error { return v.Err }

// Assert panics with a Violation wrapping err when cond is false and checks
// are enabled.
func Assert(cond bool, err error, format string, args ...any) {
	if Enabled && !cond {
		panic(&Violation{Err: err, Msg: fmt.Sprintf(format, args...)})
	}
}

// Fail panics unconditionally. Used for internal-consistency failures such as
// out-of-range block or local indices.
func Fail(err error, format string, args ...any) {
	panic(&Violation{Err: err, Msg: fmt.Sprintf(format, args...)})
}
