// Package decl defines the navigable declaration tree consumed by the glue
// generator. A front end (see decl/cpp) produces it; the extractor only
// queries kinds, names, types, accessibility and availability.
package decl

// CursorKind classifies a declaration. Only the kinds the extractor
// understands are distinguished; everything else is KindOther.
type CursorKind int

const (
	KindOther CursorKind = iota
	KindTranslationUnit
	KindNamespace
	KindClass
	KindMethod
	KindConstructor
	KindDestructor
	KindField
	KindParam
)

var cursorKindNames = [...]string{
	KindOther:           "Other",
	KindTranslationUnit: "TranslationUnit",
	KindNamespace:       "Namespace",
	KindClass:           "ClassDecl",
	KindMethod:          "CXXMethod",
	KindConstructor:     "Constructor",
	KindDestructor:      "Destructor",
	KindField:           "FieldDecl",
	KindParam:           "ParmDecl",
}

func (k CursorKind) String() string {
	if k < 0 || int(k) >= len(cursorKindNames) {
		return "Invalid"
	}
	return cursorKindNames[k]
}

// TypeKind classifies a type expression.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeCharS
	TypeCharU
	TypeSChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLong
	TypeULong
	TypeLongLong
	TypeULongLong
	TypeFloat
	TypeDouble
	TypePointer
	TypeLValueReference
	TypeRValueReference
	TypeIncompleteArray
	TypeConstantArray
	TypeRecord
	TypeEnum
	TypeTypedef
	TypeUnexposed
	TypeFunctionProto
)

var typeKindNames = [...]string{
	TypeInvalid:         "Invalid",
	TypeVoid:            "Void",
	TypeBool:            "Bool",
	TypeCharS:           "Char_S",
	TypeCharU:           "Char_U",
	TypeSChar:           "SChar",
	TypeUChar:           "UChar",
	TypeShort:           "Short",
	TypeUShort:          "UShort",
	TypeInt:             "Int",
	TypeUInt:            "UInt",
	TypeLong:            "Long",
	TypeULong:           "ULong",
	TypeLongLong:        "LongLong",
	TypeULongLong:       "ULongLong",
	TypeFloat:           "Float",
	TypeDouble:          "Double",
	TypePointer:         "Pointer",
	TypeLValueReference: "LValueReference",
	TypeRValueReference: "RValueReference",
	TypeIncompleteArray: "IncompleteArray",
	TypeConstantArray:   "ConstantArray",
	TypeRecord:          "Record",
	TypeEnum:            "Enum",
	TypeTypedef:         "Typedef",
	TypeUnexposed:       "Unexposed",
	TypeFunctionProto:   "FunctionProto",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= len(typeKindNames) {
		return "Invalid"
	}
	return typeKindNames[k]
}

// Access is a member's accessibility.
type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// Availability is whether a declaration may be used.
type Availability int

const (
	Available Availability = iota
	Deprecated
	NotAvailable
)

// Cursor is one node of the declaration tree.
//
// Cursors are only valid while the front end session that produced them is
// open; callers must copy out everything they need.
type Cursor interface {
	Kind() CursorKind
	// Name is the declaration's spelling, "" for anonymous declarations.
	Name() string
	// DisplayName is a human-readable rendering used in diagnostics.
	DisplayName() string
	Children() []Cursor
	Access() Access
	Availability() Availability
	IsStatic() bool
	// ResultType is the return type of a method, nil otherwise.
	ResultType() Type
	// Args are the parameters of a method, in order.
	Args() []Cursor
	// Type is the declared type of a parameter or field, nil otherwise.
	Type() Type
}

// Type is a type expression.
type Type interface {
	Kind() TypeKind
	// DisplayName is the type as written, including a "const " prefix for
	// const-qualified types.
	DisplayName() string
	IsConst() bool
	// Pointee is the pointed-to type of a pointer or reference.
	Pointee() Type
	// Element is the element type of an array.
	Element() Type
	// TemplateArgs are the type arguments of a template instantiation.
	TemplateArgs() []Type
}
