package types

import (
	"strings"
)

// WrapperName is the canonical spelling of the reference wrapper template.
const WrapperName = "std::reference_wrapper"

// maxLabelDepth bounds the nesting Label spells out in full.
const maxLabelDepth = 64

// Label returns a user-friendly label for a TypeID. The output uses the
// postfix notation understood by internal/parser, so labels round-trip.
func Label(typesIn *Interner, id TypeID) string {
	return labelDepth(typesIn, id, 0)
}

func labelDepth(typesIn *Interner, id TypeID, depth int) string {
	if id == NoTypeID {
		return "?"
	}
	if depth > maxLabelDepth {
		return "..."
	}
	if typesIn == nil {
		return "?"
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindVoid, KindBool, KindChar, KindInt, KindLong, KindUnsigned, KindFloat, KindDouble:
		return withCV(tt.Kind.String(), tt.CV)
	case KindClass:
		info, ok := typesIn.ClassInfo(id)
		if !ok || info == nil {
			return withCV("class?", tt.CV)
		}
		return withCV(info.Name, tt.CV)
	case KindPointer:
		return withCV(elemLabel(typesIn, tt.Elem, depth)+"*", tt.CV)
	case KindReference:
		if tt.Transient {
			return elemLabel(typesIn, tt.Elem, depth) + "&&"
		}
		return elemLabel(typesIn, tt.Elem, depth) + "&"
	case KindMemberPointer:
		return withCV(elemLabel(typesIn, tt.Elem, depth)+" "+labelDepth(typesIn, tt.Class, depth+1)+"::*", tt.CV)
	case KindWrapper:
		return withCV(WrapperName+"<"+labelDepth(typesIn, tt.Elem, depth+1)+">", tt.CV)
	case KindFn:
		return formatFnType(typesIn, id, depth)
	default:
		return tt.Kind.String()
	}
}

// elemLabel parenthesises function types so that a trailing & or * is not
// read back as a function qualifier.
func elemLabel(typesIn *Interner, elem TypeID, depth int) string {
	s := labelDepth(typesIn, elem, depth+1)
	if tt, ok := typesIn.Lookup(elem); ok && tt.Kind == KindFn {
		return "(" + s + ")"
	}
	return s
}

func withCV(base string, cv CV) string {
	if cv == CVNone {
		return base
	}
	return base + " " + cv.String()
}

func formatFnType(typesIn *Interner, id TypeID, depth int) string {
	info, ok := typesIn.FnInfo(id)
	if !ok || info == nil {
		return "fn?"
	}
	var sb strings.Builder
	sb.WriteString(labelDepth(typesIn, info.Result, depth+1))
	sb.WriteByte('(')
	for i, p := range info.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(labelDepth(typesIn, p, depth+1))
	}
	if info.Qual.Has(FnVariadic) {
		if len(info.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	if quals := info.Qual.String(); quals != "" {
		sb.WriteByte(' ')
		sb.WriteString(quals)
	}
	return sb.String()
}
