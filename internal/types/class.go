package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// ClassField describes a data member.
type ClassField struct {
	Name string
	Type TypeID
}

// ClassMethod describes a named member function; Fn is a function type.
type ClassMethod struct {
	Name string
	Fn   TypeID
}

// ClassInfo stores metadata for a nominal class type.
type ClassInfo struct {
	Name    string
	Fields  []ClassField
	Methods []ClassMethod
	// CallOperator is the function type of operator(), or NoTypeID.
	CallOperator TypeID
	// Complete is false for forward declarations.
	Complete bool
}

// RegisterClass allocates a nominal class type slot and returns its TypeID.
func (in *Interner) RegisterClass(name string) TypeID {
	slot := in.appendClassInfo(ClassInfo{Name: name})
	return in.internRaw(Type{Kind: KindClass, Payload: slot})
}

// ClassInfo returns metadata for the provided class TypeID. Qualified class
// types share the metadata of their unqualified form.
func (in *Interner) ClassInfo(typeID TypeID) (*ClassInfo, bool) {
	info := in.classInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

// AddField appends a data member.
func (in *Interner) AddField(typeID TypeID, field ClassField) {
	if info := in.classInfo(typeID); info != nil {
		info.Fields = append(info.Fields, field)
	}
}

// AddMethod appends a named member function.
func (in *Interner) AddMethod(typeID TypeID, method ClassMethod) {
	if info := in.classInfo(typeID); info != nil {
		info.Methods = append(info.Methods, method)
	}
}

// SetCallOperator records operator(). It reports false when one is already set.
func (in *Interner) SetCallOperator(typeID, fn TypeID) bool {
	info := in.classInfo(typeID)
	if info == nil || info.CallOperator != NoTypeID {
		return false
	}
	info.CallOperator = fn
	return true
}

// MarkComplete flags the class body as defined.
func (in *Interner) MarkComplete(typeID TypeID) {
	if info := in.classInfo(typeID); info != nil {
		info.Complete = true
	}
}

// ClassField looks a data member up by name.
func (in *Interner) ClassField(typeID TypeID, name string) (ClassField, bool) {
	info := in.classInfo(typeID)
	if info == nil {
		return ClassField{}, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ClassField{}, false
}

// ClassMethod looks a member function up by name.
func (in *Interner) ClassMethod(typeID TypeID, name string) (ClassMethod, bool) {
	info := in.classInfo(typeID)
	if info == nil {
		return ClassMethod{}, false
	}
	for _, m := range info.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return ClassMethod{}, false
}

// FindClass returns the unqualified class TypeID registered under name.
func (in *Interner) FindClass(name string) (TypeID, bool) {
	if in == nil || name == "" {
		return NoTypeID, false
	}
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindClass || tt.CV != CVNone {
			continue
		}
		if int(tt.Payload) < len(in.classes) && in.classes[tt.Payload].Name == name {
			return id, true
		}
	}
	return NoTypeID, false
}

func (in *Interner) classInfo(typeID TypeID) *ClassInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindClass {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.classes) {
		return nil
	}
	return &in.classes[tt.Payload]
}

func (in *Interner) appendClassInfo(info ClassInfo) uint32 {
	if in.classes == nil {
		in.classes = append(in.classes, ClassInfo{})
	}
	in.classes = append(in.classes, ClassInfo{
		Name:         info.Name,
		Fields:       slices.Clone(info.Fields),
		Methods:      slices.Clone(info.Methods),
		CallOperator: info.CallOperator,
		Complete:     info.Complete,
	})
	slot, err := safecast.Conv[uint32](len(in.classes) - 1)
	if err != nil {
		panic(fmt.Errorf("class info overflow: %w", err))
	}
	return slot
}
