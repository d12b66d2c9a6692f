package sig

import (
	"fmt"
	"strings"

	"calltraits/internal/types"
)

// Shape is the kind of invocable entity (or indirection) a type denotes.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeFunction
	ShapeMemberFunction
	ShapeMemberData
	ShapeCallOperator
	ShapeReference
	ShapePointer
	ShapeWrapper
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeFunction:
		return "function"
	case ShapeMemberFunction:
		return "member-function"
	case ShapeMemberData:
		return "member-data"
	case ShapeCallOperator:
		return "call-operator"
	case ShapeReference:
		return "reference"
	case ShapePointer:
		return "pointer"
	case ShapeWrapper:
		return "wrapper"
	default:
		return fmt.Sprintf("Shape(%d)", s)
	}
}

// IsIndirection reports the three forwarding layers.
func (s Shape) IsIndirection() bool {
	return s == ShapeReference || s == ShapePointer || s == ShapeWrapper
}

type shapeRule struct {
	shape Shape
	match func(in *types.Interner, id types.TypeID, tt types.Type) bool
}

// shapeRules is evaluated top to bottom; the first match wins.
var shapeRules = []shapeRule{
	{ShapeFunction, func(_ *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindFn
	}},
	{ShapeMemberFunction, func(in *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindMemberPointer && IsFunction(in, tt.Elem)
	}},
	{ShapeMemberData, func(in *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindMemberPointer && !IsFunction(in, tt.Elem)
	}},
	{ShapeCallOperator, func(in *types.Interner, id types.TypeID, tt types.Type) bool {
		if tt.Kind != types.KindClass {
			return false
		}
		info, ok := in.ClassInfo(id)
		return ok && info.CallOperator != types.NoTypeID
	}},
	{ShapeReference, func(_ *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindReference
	}},
	{ShapePointer, func(_ *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindPointer
	}},
	{ShapeWrapper, func(_ *types.Interner, _ types.TypeID, tt types.Type) bool {
		return tt.Kind == types.KindWrapper
	}},
}

// ShapeOf classifies one layer of id. Top-level cv is ignored.
func ShapeOf(in *types.Interner, id types.TypeID) Shape {
	tt, ok := in.Lookup(id)
	if !ok {
		return ShapeNone
	}
	for _, rule := range shapeRules {
		if rule.match(in, id, tt) {
			return rule.shape
		}
	}
	return ShapeNone
}

// Classification is the canonical signature of an invocable type.
type Classification struct {
	// Path lists the shapes visited, outermost first; the last entry is
	// ShapeFunction or ShapeMemberData.
	Path []Shape
	// Function is the resolved plain function type.
	Function types.TypeID
	// Class is the owning class for member and call-operator paths.
	Class      types.TypeID
	Descriptor Descriptor
}

// PathString renders Path as "pointer > call-operator > ...".
func (c Classification) PathString() string {
	parts := make([]string, len(c.Path))
	for i, s := range c.Path {
		parts[i] = s.String()
	}
	return strings.Join(parts, " > ")
}

// Classify resolves id to a canonical signature. At most one reference,
// pointer or wrapper layer is accepted in front of the invocable entity.
func Classify(in *types.Interner, id types.TypeID) (Classification, error) {
	var c Classification
	cur := id
	indirect := false
	for {
		shape := ShapeOf(in, cur)
		c.Path = append(c.Path, shape)
		switch shape {
		case ShapeFunction:
			d, err := Decompose(in, cur)
			if err != nil {
				return Classification{}, err
			}
			c.Function = in.Unqualified(cur)
			c.Descriptor = d
			return c, nil

		case ShapeMemberFunction:
			fn, class, err := MemberFunction(in, cur)
			if err != nil {
				return Classification{}, err
			}
			c.Class = class
			cur = fn

		case ShapeMemberData:
			object, class, err := MemberData(in, cur)
			if err != nil {
				return Classification{}, err
			}
			c.Class = class
			c.Descriptor = accessor(in, object, class)
			c.Function = Synthesize(in, c.Descriptor)
			return c, nil

		case ShapeCallOperator:
			class := in.Unqualified(cur)
			info, _ := in.ClassInfo(class)
			// operator() is reached through its address, a member function pointer.
			cur = in.Intern(types.MakeMemberPointer(info.CallOperator, class))

		case ShapeReference, ShapePointer, ShapeWrapper:
			if indirect {
				err := mismatch(in, "classify", id, "invocable type")
				err.Reason = "more than one layer of indirection"
				return Classification{}, err
			}
			indirect = true
			tt := in.MustLookup(cur)
			cur = tt.Elem

		default:
			err := mismatch(in, "classify", id, "invocable type")
			if cur != id {
				err.Reason = fmt.Sprintf("%s is not invocable", types.Label(in, cur))
			}
			return Classification{}, err
		}
	}
}

// accessor synthesises the zero-argument accessor of a data member:
// object(Class&), or object(Class const&) for a const member.
func accessor(in *types.Interner, object, class types.TypeID) Descriptor {
	receiver := class
	if in.Qualifiers(object).Const() {
		receiver = in.WithCV(class, types.CVConst)
	}
	return Descriptor{
		Result: object,
		Params: []types.TypeID{in.Intern(types.MakeReference(receiver, false))},
	}
}
