package ir

// MaybeKind describes one member of the fixed family of primitive Maybe
// result structs.
type MaybeKind struct {
	Payload Builtin
	Suffix  string // struct and unwrap-function suffix (e.g., "Bool")
	CType   string // C payload type (e.g., "bool")
}

// MaybeFamily lists the primitive payloads that get a dedicated result
// struct. Order is the emission order.
var MaybeFamily = []MaybeKind{
	{Bool, "Bool", "bool"},
	{Int, "Int", "int"},
	{UInt, "UInt", "unsigned int"},
	{Long, "Long", "long"},
	{ULong, "ULong", "unsigned long"},
	{U32, "U32", "uint32_t"},
	{I32, "I32", "int32_t"},
	{U64, "U64", "uint64_t"},
	{I64, "I64", "int64_t"},
	{F64, "F64", "double"},
}

// PrimitiveMaybe returns the family member for payload t, if any.
func PrimitiveMaybe(t Type) (MaybeKind, bool) {
	b, ok := t.(Builtin)
	if !ok {
		return MaybeKind{}, false
	}
	for _, k := range MaybeFamily {
		if k.Payload == b {
			return k, true
		}
	}
	return MaybeKind{}, false
}

// MaybePayloadOK reports whether t can be the payload of a Maybe result:
// a primitive family member or a handle to a class.
func MaybePayloadOK(t Type) bool {
	if _, ok := PrimitiveMaybe(t); ok {
		return true
	}
	_, ok := RefClass(t)
	return ok
}
