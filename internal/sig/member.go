package sig

import "calltraits/internal/types"

// MemberFunction splits "fn C::*" into the function type and the class.
// Member pointers to data are rejected.
func MemberFunction(in *types.Interner, mp types.TypeID) (fn, class types.TypeID, err error) {
	tt, ok := in.Lookup(in.Unqualified(mp))
	if !ok || tt.Kind != types.KindMemberPointer || !IsFunction(in, tt.Elem) {
		return types.NoTypeID, types.NoTypeID, mismatch(in, "member_function", mp, "pointer to member function")
	}
	return tt.Elem, tt.Class, nil
}

// MemberData splits "T C::*" into the member's object type (with its own cv)
// and the class. Member pointers to functions are rejected.
func MemberData(in *types.Interner, mp types.TypeID) (object, class types.TypeID, err error) {
	tt, ok := in.Lookup(in.Unqualified(mp))
	if !ok || tt.Kind != types.KindMemberPointer || IsFunction(in, tt.Elem) {
		return types.NoTypeID, types.NoTypeID, mismatch(in, "member_data", mp, "pointer to data member")
	}
	return tt.Elem, tt.Class, nil
}
