package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/chazu/v8gen/decl"
)

// ctype is a decl.Type built from syntax. Without semantic analysis,
// identifiers are classified by the enum and typedef names seen anywhere in
// the parsed files; everything else named is a record.
type ctype struct {
	kind    decl.TypeKind
	display string
	isConst bool
	inner   *ctype
	args    []*ctype
}

var _ decl.Type = (*ctype)(nil)

func (t *ctype) Kind() decl.TypeKind { return t.kind }
func (t *ctype) IsConst() bool       { return t.isConst }

func (t *ctype) DisplayName() string {
	if !t.isConst {
		return t.display
	}
	switch t.kind {
	case decl.TypePointer, decl.TypeLValueReference, decl.TypeRValueReference:
		return t.display + " const"
	}
	return "const " + t.display
}

func (t *ctype) Pointee() decl.Type {
	switch t.kind {
	case decl.TypePointer, decl.TypeLValueReference, decl.TypeRValueReference:
		if t.inner != nil {
			return t.inner
		}
	}
	return nil
}

func (t *ctype) Element() decl.Type {
	switch t.kind {
	case decl.TypeIncompleteArray, decl.TypeConstantArray:
		if t.inner != nil {
			return t.inner
		}
	}
	return nil
}

func (t *ctype) TemplateArgs() []decl.Type {
	if len(t.args) == 0 {
		return nil
	}
	out := make([]decl.Type, len(t.args))
	for i, a := range t.args {
		out[i] = a
	}
	return out
}

var primitiveKinds = map[string]decl.TypeKind{
	"void":   decl.TypeVoid,
	"bool":   decl.TypeBool,
	"char":   decl.TypeCharS,
	"int":    decl.TypeInt,
	"short":  decl.TypeShort,
	"long":   decl.TypeLong,
	"float":  decl.TypeFloat,
	"double": decl.TypeDouble,
}

// typeOf builds the declared type of a declaration-shaped node (one with
// "type" and "declarator" fields) and returns it with the declared name.
func (s *Session) typeOf(f *file, n *sitter.Node) (*ctype, string) {
	base := s.baseType(f, n.ChildByFieldName("type"), hasConst(f, n))
	return s.wrap(f, base, n.ChildByFieldName("declarator"))
}

// baseType classifies a type specifier.
func (s *Session) baseType(f *file, n *sitter.Node, isConst bool) *ctype {
	if n == nil {
		return &ctype{kind: decl.TypeInvalid}
	}
	text := normalize(n.Content(f.src))
	t := &ctype{display: text, isConst: isConst}

	switch n.Type() {
	case "primitive_type":
		if k, ok := primitiveKinds[text]; ok {
			t.kind = k
		} else {
			// int32_t, size_t and friends
			t.kind = decl.TypeTypedef
		}

	case "sized_type_specifier":
		t.kind = sizedKind(text)

	case "type_identifier", "identifier":
		t.kind = s.namedKind(text)

	case "qualified_identifier", "template_type":
		inner := n
		for inner != nil && inner.Type() == "qualified_identifier" {
			inner = inner.ChildByFieldName("name")
		}
		switch {
		case inner == nil:
			t.kind = decl.TypeInvalid
		case inner.Type() == "template_type":
			t.kind = decl.TypeUnexposed
			t.args = s.templateArgs(f, inner.ChildByFieldName("arguments"))
		default:
			t.kind = s.namedKind(inner.Content(f.src))
		}

	case "dependent_type":
		t.kind = decl.TypeUnexposed

	case "class_specifier", "struct_specifier", "union_specifier":
		t.kind = decl.TypeRecord
		if name := n.ChildByFieldName("name"); name != nil {
			t.display = normalize(name.Content(f.src))
		}

	case "enum_specifier":
		t.kind = decl.TypeEnum
		if name := n.ChildByFieldName("name"); name != nil {
			t.display = normalize(name.Content(f.src))
		}

	default:
		t.kind = decl.TypeInvalid
	}
	return t
}

func (s *Session) namedKind(name string) decl.TypeKind {
	switch {
	case s.enums[name]:
		return decl.TypeEnum
	case s.typedefs[name]:
		return decl.TypeTypedef
	}
	return decl.TypeRecord
}

func (s *Session) templateArgs(f *file, list *sitter.Node) []*ctype {
	if list == nil {
		return nil
	}
	var args []*ctype
	for i := 0; i < int(list.NamedChildCount()); i++ {
		a := list.NamedChild(i)
		if a.Type() == "type_descriptor" {
			t, _ := s.typeOf(f, a)
			args = append(args, t)
			continue
		}
		// identifiers in argument position parse as expressions
		args = append(args, s.baseType(f, a, false))
	}
	return args
}

// sizedKind classifies a multi-word builtin such as "unsigned long".
func sizedKind(text string) decl.TypeKind {
	var unsigned, signed bool
	var longs, shorts int
	base := ""
	for _, w := range strings.Fields(text) {
		switch w {
		case "unsigned":
			unsigned = true
		case "signed":
			signed = true
		case "long":
			longs++
		case "short":
			shorts++
		case "const", "volatile":
		default:
			base = w
		}
	}

	switch base {
	case "char":
		switch {
		case unsigned:
			return decl.TypeUChar
		case signed:
			return decl.TypeSChar
		}
		return decl.TypeCharS
	case "double":
		if longs > 0 {
			return decl.TypeInvalid
		}
		return decl.TypeDouble
	case "", "int":
	default:
		return decl.TypeInvalid
	}

	pick := func(s, u decl.TypeKind) decl.TypeKind {
		if unsigned {
			return u
		}
		return s
	}
	switch {
	case shorts > 0:
		return pick(decl.TypeShort, decl.TypeUShort)
	case longs == 1:
		return pick(decl.TypeLong, decl.TypeULong)
	case longs > 1:
		return pick(decl.TypeLongLong, decl.TypeULongLong)
	}
	return pick(decl.TypeInt, decl.TypeUInt)
}

// wrap applies the declarator chain d to base and returns the resulting type
// with the declared name.
func (s *Session) wrap(f *file, base *ctype, d *sitter.Node) (*ctype, string) {
	t, name, _ := s.declarate(f, base, d, false)
	return t, name
}

// declarate walks a declarator from the outside in. Each layer applies to
// the type built so far. With stopAtFunction the walk ends at the first
// function declarator, which is returned; this yields a method's result
// type.
func (s *Session) declarate(f *file, base *ctype, d *sitter.Node, stopAtFunction bool) (*ctype, string, *sitter.Node) {
	t := base
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier", "operator_name", "destructor_name", "qualified_identifier":
			return t, normalize(d.Content(f.src)), nil

		case "pointer_declarator", "abstract_pointer_declarator":
			t = &ctype{kind: decl.TypePointer, display: t.DisplayName() + "*", inner: t, isConst: hasConst(f, d)}
			d = d.ChildByFieldName("declarator")

		case "reference_declarator", "abstract_reference_declarator":
			kind, suffix := decl.TypeLValueReference, "&"
			if strings.HasPrefix(strings.TrimSpace(d.Content(f.src)), "&&") {
				kind, suffix = decl.TypeRValueReference, "&&"
			}
			t = &ctype{kind: kind, display: t.DisplayName() + suffix, inner: t}
			d = lastNamed(d)

		case "array_declarator", "abstract_array_declarator":
			size := d.ChildByFieldName("size")
			if size == nil {
				t = &ctype{kind: decl.TypeIncompleteArray, display: t.DisplayName() + "[]", inner: t}
			} else {
				t = &ctype{kind: decl.TypeConstantArray, display: t.DisplayName() + "[" + size.Content(f.src) + "]", inner: t}
			}
			d = d.ChildByFieldName("declarator")

		case "parenthesized_declarator", "abstract_parenthesized_declarator":
			d = lastNamed(d)

		case "function_declarator", "abstract_function_declarator":
			if stopAtFunction {
				return t, "", d
			}
			params := ""
			if p := d.ChildByFieldName("parameters"); p != nil {
				params = normalize(p.Content(f.src))
			}
			t = &ctype{kind: decl.TypeFunctionProto, display: t.DisplayName() + params, inner: t}
			d = d.ChildByFieldName("declarator")

		default:
			return t, "", nil
		}
	}
	return t, "", nil
}

func hasConst(f *file, n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "type_qualifier" && c.Content(f.src) == "const" {
			return true
		}
	}
	return false
}

func lastNamed(n *sitter.Node) *sitter.Node {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		c := n.NamedChild(i)
		if c.Type() != "type_qualifier" && c.Type() != "attribute_declaration" {
			return c
		}
	}
	return nil
}

var displayReplacer = strings.NewReplacer(
	" <", "<", "< ", "<",
	" >", ">",
	" ,", ",",
	" ::", "::", ":: ", "::",
	" *", "*", " &", "&",
)

// normalize collapses whitespace in a type as written.
func normalize(s string) string {
	return displayReplacer.Replace(strings.Join(strings.Fields(s), " "))
}
