package ir

// Type is implemented by every IR type variant: Builtin, ClassType, Ref,
// Ptr and Arr. The set is closed.
type Type interface {
	isType()
	String() string
}

// Builtin is a scalar type with a fixed C representation.
type Builtin int

const (
	Void = Builtin(iota)
	Bool
	U8
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F64
	Char
	ConstChar
	Int
	UInt
	Long
	ULong
)

var builtinNames = [...]string{
	Void:      "void",
	Bool:      "bool",
	U8:        "u8",
	I8:        "i8",
	U16:       "u16",
	I16:       "i16",
	U32:       "u32",
	I32:       "i32",
	U64:       "u64",
	I64:       "i64",
	F64:       "f64",
	Char:      "char",
	ConstChar: "const char",
	Int:       "int",
	UInt:      "uint",
	Long:      "long",
	ULong:     "ulong",
}

func (Builtin) isType() {}

func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return "invalid"
	}
	return builtinNames[b]
}

// ClassType is an opaque reference to a modeled class, namespace stripped.
type ClassType struct {
	Name string
}

func (ClassType) isType()          {}
func (c ClassType) String() string { return c.Name }

// Ref is a managed handle to an engine value (Local<T> in the engine).
type Ref struct {
	Elem Type
}

func (Ref) isType()          {}
func (r Ref) String() string { return "Ref<" + r.Elem.String() + ">" }

// Ptr is a raw pointer.
type Ptr struct {
	Elem Type
}

func (Ptr) isType()          {}
func (p Ptr) String() string { return "*" + p.Elem.String() }

// Arr is an unsized array.
type Arr struct {
	Elem Type
}

func (Arr) isType()          {}
func (a Arr) String() string { return "[" + a.Elem.String() + "]" }

// RetType is the result of a method: a value that is always produced
// (Direct) or one the engine may fail to produce (Maybe).
//
// A Maybe payload is narrower than what the engine allows: it must be a
// MaybeFamily primitive or a handle to a class (see MaybePayloadOK). Other
// payloads such as Maybe<int8_t> or Maybe<void> are rejected during type
// mapping instead of degrading to a nullable pointer, since the generated
// C++ has no generic unwrap for them.
type RetType struct {
	Maybe bool
	Type  Type
}

// Direct returns a RetType that always yields t.
func Direct(t Type) RetType { return RetType{Type: t} }

// Maybe returns a fallible RetType wrapping t.
func Maybe(t Type) RetType { return RetType{Maybe: true, Type: t} }

// IsVoid reports whether the call yields nothing.
func (r RetType) IsVoid() bool {
	return !r.Maybe && r.Type == Void
}

func (r RetType) String() string {
	if r.Maybe {
		return "Maybe<" + r.Type.String() + ">"
	}
	return r.Type.String()
}

// IsInteger reports whether t is an integral scalar.
func IsInteger(t Type) bool {
	b, ok := t.(Builtin)
	if !ok {
		return false
	}
	switch b {
	case U8, I8, U16, I16, U32, I32, U64, I64, Int, UInt, Long, ULong:
		return true
	}
	return false
}

// RefClass returns the class name behind a Ref(ClassType) and true, or
// "" and false for any other type.
func RefClass(t Type) (string, bool) {
	r, ok := t.(Ref)
	if !ok {
		return "", false
	}
	c, ok := r.Elem.(ClassType)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// Classes calls fn for every class name referenced by t.
func Classes(t Type, fn func(name string)) {
	switch v := t.(type) {
	case ClassType:
		fn(v.Name)
	case Ref:
		Classes(v.Elem, fn)
	case Ptr:
		Classes(v.Elem, fn)
	case Arr:
		Classes(v.Elem, fn)
	}
}
