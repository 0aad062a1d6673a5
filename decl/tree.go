package decl

import "strings"

// Node is an in-memory Cursor. It backs tests and any front end that
// prefers to build the tree eagerly.
type Node struct {
	NodeKind CursorKind
	Spelling string
	Display  string
	Members  []*Node
	Acc      Access
	Avail    Availability
	Static   bool
	Result   *TypeExpr
	Params   []*Node
	Declared *TypeExpr
}

var _ Cursor = (*Node)(nil)

func (n *Node) Kind() CursorKind { return n.NodeKind }
func (n *Node) Name() string     { return n.Spelling }

func (n *Node) DisplayName() string {
	if n.Display != "" {
		return n.Display
	}
	if n.NodeKind != KindMethod {
		return n.Spelling
	}
	parts := make([]string, len(n.Params))
	for i, p := range n.Params {
		if p.Declared != nil {
			parts[i] = p.Declared.DisplayName()
		}
	}
	return n.Spelling + "(" + strings.Join(parts, ", ") + ")"
}

func (n *Node) Children() []Cursor {
	out := make([]Cursor, len(n.Members))
	for i, m := range n.Members {
		out[i] = m
	}
	return out
}

func (n *Node) Access() Access             { return n.Acc }
func (n *Node) Availability() Availability { return n.Avail }
func (n *Node) IsStatic() bool             { return n.Static }

func (n *Node) ResultType() Type {
	if n.Result == nil {
		return nil
	}
	return n.Result
}

func (n *Node) Args() []Cursor {
	out := make([]Cursor, len(n.Params))
	for i, p := range n.Params {
		out[i] = p
	}
	return out
}

func (n *Node) Type() Type {
	if n.Declared == nil {
		return nil
	}
	return n.Declared
}

// NewTranslationUnit returns a root node.
func NewTranslationUnit(children ...*Node) *Node {
	return &Node{NodeKind: KindTranslationUnit, Members: children}
}

// NewNamespace returns a namespace node.
func NewNamespace(name string, children ...*Node) *Node {
	return &Node{NodeKind: KindNamespace, Spelling: name, Members: children}
}

// NewClass returns a class node. A class without members is a forward
// declaration.
func NewClass(name string, members ...*Node) *Node {
	return &Node{NodeKind: KindClass, Spelling: name, Members: members}
}

// NewMethod returns a public, available instance method.
func NewMethod(name string, result *TypeExpr, params ...*Node) *Node {
	return &Node{
		NodeKind: KindMethod,
		Spelling: name,
		Acc:      AccessPublic,
		Result:   result,
		Params:   params,
	}
}

// NewParam returns a parameter node.
func NewParam(name string, t *TypeExpr) *Node {
	return &Node{NodeKind: KindParam, Spelling: name, Declared: t}
}

// WithStatic marks a method static.
func (n *Node) WithStatic() *Node {
	n.Static = true
	return n
}

// WithAccess sets a member's accessibility.
func (n *Node) WithAccess(a Access) *Node {
	n.Acc = a
	return n
}

// WithAvailability sets a member's availability.
func (n *Node) WithAvailability(a Availability) *Node {
	n.Avail = a
	return n
}

// TypeExpr is an in-memory Type.
type TypeExpr struct {
	TypeKind TypeKind
	Display  string
	Const    bool
	Inner    *TypeExpr // pointee or element
	Args     []*TypeExpr
}

var _ Type = (*TypeExpr)(nil)

func (t *TypeExpr) Kind() TypeKind { return t.TypeKind }
func (t *TypeExpr) IsConst() bool  { return t.Const }

func (t *TypeExpr) DisplayName() string {
	d := t.Display
	if d == "" {
		switch t.TypeKind {
		case TypePointer:
			d = t.Inner.DisplayName() + " *"
		case TypeLValueReference:
			d = t.Inner.DisplayName() + " &"
		case TypeIncompleteArray:
			d = t.Inner.DisplayName() + " []"
		default:
			d = builtinSpelling[t.TypeKind]
		}
	}
	if t.Const && !strings.HasPrefix(d, "const ") {
		d = "const " + d
	}
	return d
}

func (t *TypeExpr) Pointee() Type {
	if t.Inner == nil || (t.TypeKind != TypePointer && t.TypeKind != TypeLValueReference && t.TypeKind != TypeRValueReference) {
		return nil
	}
	return t.Inner
}

func (t *TypeExpr) Element() Type {
	if t.Inner == nil || (t.TypeKind != TypeIncompleteArray && t.TypeKind != TypeConstantArray) {
		return nil
	}
	return t.Inner
}

func (t *TypeExpr) TemplateArgs() []Type {
	out := make([]Type, len(t.Args))
	for i, a := range t.Args {
		out[i] = a
	}
	return out
}

var builtinSpelling = map[TypeKind]string{
	TypeVoid:      "void",
	TypeBool:      "bool",
	TypeCharS:     "char",
	TypeCharU:     "char",
	TypeSChar:     "signed char",
	TypeUChar:     "unsigned char",
	TypeShort:     "short",
	TypeUShort:    "unsigned short",
	TypeInt:       "int",
	TypeUInt:      "unsigned int",
	TypeLong:      "long",
	TypeULong:     "unsigned long",
	TypeLongLong:  "long long",
	TypeULongLong: "unsigned long long",
	TypeFloat:     "float",
	TypeDouble:    "double",
}

// Builtin returns a scalar type of the given kind.
func Builtin(k TypeKind) *TypeExpr {
	return &TypeExpr{TypeKind: k}
}

// Const returns a const-qualified copy of t.
func Const(t *TypeExpr) *TypeExpr {
	c := *t
	c.Const = true
	return &c
}

// PointerTo returns a pointer to t.
func PointerTo(t *TypeExpr) *TypeExpr {
	return &TypeExpr{TypeKind: TypePointer, Inner: t}
}

// ReferenceTo returns an lvalue reference to t.
func ReferenceTo(t *TypeExpr) *TypeExpr {
	return &TypeExpr{TypeKind: TypeLValueReference, Inner: t}
}

// ArrayOf returns an incomplete array of t.
func ArrayOf(t *TypeExpr) *TypeExpr {
	return &TypeExpr{TypeKind: TypeIncompleteArray, Inner: t}
}

// Record returns a class or struct reference with the given display name.
func Record(display string) *TypeExpr {
	return &TypeExpr{TypeKind: TypeRecord, Display: display}
}

// Typedef returns a typedef reference with the given display name.
func Typedef(display string) *TypeExpr {
	return &TypeExpr{TypeKind: TypeTypedef, Display: display}
}

// Enum returns an enumeration reference with the given display name.
func Enum(display string) *TypeExpr {
	return &TypeExpr{TypeKind: TypeEnum, Display: display}
}

// Unexposed returns a template instantiation the front end does not model
// structurally, such as Local<Value>.
func Unexposed(display string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{TypeKind: TypeUnexposed, Display: display, Args: args}
}
