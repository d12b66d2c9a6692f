package sig

import (
	"errors"
	"fmt"

	"calltraits/internal/types"
)

// ErrShapeMismatch is the single failure class of this package: an operation
// was applied to a type outside its domain.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError describes a rejected operation.
type ShapeError struct {
	Op     string       // operation that rejected the input
	Type   types.TypeID // offending type, NoTypeID when not applicable
	Label  string       // rendered offending type
	Want   string       // expected shape
	Reason string       // extra context
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, ErrShapeMismatch)
	if e.Label != "" {
		msg += fmt.Sprintf(": %s", e.Label)
	}
	if e.Want != "" {
		msg += fmt.Sprintf(" (want %s)", e.Want)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func mismatch(in *types.Interner, op string, id types.TypeID, want string) *ShapeError {
	return &ShapeError{
		Op:    op,
		Type:  id,
		Label: types.Label(in, id),
		Want:  want,
	}
}
