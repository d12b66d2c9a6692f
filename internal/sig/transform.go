package sig

import (
	"errors"
	"fmt"
	"strings"

	"calltraits/internal/types"
)

// Axis names one independently toggleable qualifier.
type Axis uint8

const (
	AxisConst Axis = iota + 1
	AxisVolatile
	AxisVariadic
	AxisNoThrow
	AxisPersistent
	AxisTransient
)

func (a Axis) String() string {
	switch a {
	case AxisConst:
		return "const"
	case AxisVolatile:
		return "volatile"
	case AxisVariadic:
		return "variadic"
	case AxisNoThrow:
		return "noexcept"
	case AxisPersistent:
		return "persistent"
	case AxisTransient:
		return "transient"
	default:
		return fmt.Sprintf("Axis(%d)", a)
	}
}

// Add forces axis on and re-synthesises. Setting a reference axis replaces
// the other reference mode.
func Add(in *types.Interner, fn types.TypeID, axis Axis) (types.TypeID, error) {
	return edit(in, "add_"+axis.String(), fn, func(d *Descriptor) { set(d, axis, true) })
}

// Remove forces axis off and re-synthesises. Removing a reference axis only
// clears the mode when it is the current one.
func Remove(in *types.Interner, fn types.TypeID, axis Axis) (types.TypeID, error) {
	return edit(in, "remove_"+axis.String(), fn, func(d *Descriptor) { set(d, axis, false) })
}

func set(d *Descriptor, axis Axis, on bool) {
	switch axis {
	case AxisConst:
		d.Const = on
	case AxisVolatile:
		d.Volatile = on
	case AxisVariadic:
		d.Variadic = on
	case AxisNoThrow:
		d.NoThrow = on
	case AxisPersistent:
		if on {
			d.Ref = RefPersistent
		} else {
			d.Ref &^= RefPersistent
		}
	case AxisTransient:
		if on {
			d.Ref = RefTransient
		} else {
			d.Ref &^= RefTransient
		}
	default:
		panic(fmt.Errorf("sig: unknown axis %d", axis))
	}
}

func edit(in *types.Interner, op string, fn types.TypeID, apply func(*Descriptor)) (types.TypeID, error) {
	d, err := Decompose(in, fn)
	if err != nil {
		var se *ShapeError
		if errors.As(err, &se) {
			se.Op = op
		}
		return types.NoTypeID, err
	}
	apply(&d)
	return Synthesize(in, d), nil
}

// Single-axis shorthands.

func AddConst(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisConst)
}

func RemoveConst(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisConst)
}

func AddVolatile(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisVolatile)
}

func RemoveVolatile(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisVolatile)
}

func AddVariadic(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisVariadic)
}

func RemoveVariadic(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisVariadic)
}

func AddNoThrow(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisNoThrow)
}

func RemoveNoThrow(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisNoThrow)
}

func AddPersistent(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisPersistent)
}

func RemovePersistent(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisPersistent)
}

func AddTransient(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Add(in, fn, AxisTransient)
}

func RemoveTransient(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return Remove(in, fn, AxisTransient)
}

// AddCV adds const and volatile together.
func AddCV(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return chain(in, fn, AddConst, AddVolatile)
}

// RemoveCV removes const and volatile together.
func RemoveCV(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return chain(in, fn, RemoveConst, RemoveVolatile)
}

// RemoveReference removes the persistent mode, then the transient one. It is
// the identity on a signature without a reference mode.
func RemoveReference(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return chain(in, fn, RemoveTransient, RemovePersistent)
}

// RemoveCVRef yields the minimal unqualified shape.
func RemoveCVRef(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return chain(in, fn, RemoveCV, RemoveReference)
}

// RemoveQualifiers yields the bare shape used for canonical comparison:
// no cv, no reference mode, no no-throw. The variadic tail is part of the
// parameter list and stays.
func RemoveQualifiers(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return chain(in, fn, RemoveCVRef, RemoveNoThrow)
}

type transform func(*types.Interner, types.TypeID) (types.TypeID, error)

// chain applies steps right to left, like nested calls.
func chain(in *types.Interner, fn types.TypeID, steps ...transform) (types.TypeID, error) {
	cur := fn
	for i := len(steps) - 1; i >= 0; i-- {
		next, err := steps[i](in, cur)
		if err != nil {
			return types.NoTypeID, err
		}
		cur = next
	}
	return cur, nil
}

// Op is a named transformation, the vocabulary of the CLI.
type Op struct {
	Name  string
	apply transform
}

// Apply runs the transformation.
func (op Op) Apply(in *types.Interner, fn types.TypeID) (types.TypeID, error) {
	return op.apply(in, fn)
}

var ops = []Op{
	{"add_const", AddConst},
	{"remove_const", RemoveConst},
	{"add_volatile", AddVolatile},
	{"remove_volatile", RemoveVolatile},
	{"add_cv", AddCV},
	{"remove_cv", RemoveCV},
	{"add_variadic", AddVariadic},
	{"remove_variadic", RemoveVariadic},
	{"add_noexcept", AddNoThrow},
	{"remove_noexcept", RemoveNoThrow},
	{"add_persistent", AddPersistent},
	{"remove_persistent", RemovePersistent},
	{"add_transient", AddTransient},
	{"remove_transient", RemoveTransient},
	{"remove_reference", RemoveReference},
	{"remove_cvref", RemoveCVRef},
	{"remove_qualifiers", RemoveQualifiers},
}

// opAliases accept the reference-qualifier vocabulary as well.
var opAliases = map[string]string{
	"add_lvalue_reference":    "add_persistent",
	"remove_lvalue_reference": "remove_persistent",
	"add_rvalue_reference":    "add_transient",
	"remove_rvalue_reference": "remove_transient",
	"add_nothrow":             "add_noexcept",
	"remove_nothrow":          "remove_noexcept",
}

// ParseOp resolves a transformation by name.
func ParseOp(name string) (Op, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if alias, ok := opAliases[key]; ok {
		key = alias
	}
	for _, op := range ops {
		if op.Name == key {
			return op, nil
		}
	}
	return Op{}, fmt.Errorf("unknown transformation %q (expected one of: %s)", name, strings.Join(OpNames(), ", "))
}

// OpNames lists the canonical transformation names.
func OpNames() []string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}
