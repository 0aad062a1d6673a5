package cpp

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/chazu/v8gen/decl"
)

type cursor struct {
	s      *Session
	f      *file
	n      *sitter.Node
	kind   decl.CursorKind
	name   string
	class  string // enclosing class, members only
	access decl.Access

	fn       *sitter.Node  // function declarator, methods only
	typ      *ctype        // declared type, params and fields only
	children []decl.Cursor // translation unit only
}

var _ decl.Cursor = (*cursor)(nil)

// classify wraps a syntax node in a cursor of the matching kind.
func (s *Session) classify(f *file, n *sitter.Node, class string, access decl.Access) *cursor {
	c := &cursor{s: s, f: f, n: n, class: class, access: access}

	switch n.Type() {
	case "namespace_definition":
		c.kind = decl.KindNamespace
		if name := n.ChildByFieldName("name"); name != nil {
			c.name = name.Content(f.src)
		}

	case "class_specifier", "struct_specifier":
		// specializations and qualified names are not plain classes
		if name := n.ChildByFieldName("name"); name != nil && name.Type() == "type_identifier" {
			c.kind = decl.KindClass
			c.name = name.Content(f.src)
		}

	case "field_declaration", "declaration", "function_definition":
		s.classifyMember(c)
	}
	return c
}

func (s *Session) classifyMember(c *cursor) {
	d := c.n.ChildByFieldName("declarator")
	if d == nil {
		return
	}
	_, name, fn := s.declarate(c.f, &ctype{}, d, true)
	if fn == nil {
		if c.class != "" && c.n.Type() == "field_declaration" {
			c.kind = decl.KindField
			c.name = name
			c.typ, _ = s.typeOf(c.f, c.n)
		}
		return
	}
	if c.class == "" {
		// free functions and out-of-line definitions
		return
	}

	inner := fn.ChildByFieldName("declarator")
	if inner == nil {
		return
	}
	c.fn = fn
	switch inner.Type() {
	case "field_identifier", "identifier":
		c.name = inner.Content(c.f.src)
		if c.name == c.class {
			c.kind = decl.KindConstructor
		} else {
			c.kind = decl.KindMethod
		}
	case "operator_name":
		c.kind = decl.KindMethod
		c.name = normalize(inner.Content(c.f.src))
	case "destructor_name":
		c.kind = decl.KindDestructor
		c.name = normalize(inner.Content(c.f.src))
	default:
		c.fn = nil
	}
}

func (c *cursor) Kind() decl.CursorKind { return c.kind }
func (c *cursor) Name() string          { return c.name }
func (c *cursor) Access() decl.Access   { return c.access }

func (c *cursor) DisplayName() string {
	switch c.kind {
	case decl.KindMethod, decl.KindConstructor, decl.KindDestructor:
		args := c.Args()
		parts := make([]string, len(args))
		for i, a := range args {
			if t := a.Type(); t != nil {
				parts[i] = t.DisplayName()
			}
		}
		return c.name + "(" + strings.Join(parts, ", ") + ")"
	case decl.KindParam, decl.KindField:
		if c.typ == nil {
			return c.name
		}
		return strings.TrimSpace(c.typ.DisplayName() + " " + c.name)
	}
	return c.name
}

func (c *cursor) Children() []decl.Cursor {
	if c.s.closed {
		return nil
	}
	switch c.kind {
	case decl.KindTranslationUnit:
		return c.children
	case decl.KindNamespace:
		return c.members(c.n.ChildByFieldName("body"), "", decl.AccessInvalid)
	case decl.KindClass:
		access := decl.AccessPrivate
		if c.n.Type() == "struct_specifier" {
			access = decl.AccessPublic
		}
		return c.members(c.n.ChildByFieldName("body"), c.name, access)
	}
	return nil
}

// members classifies the declarations of a namespace or class body,
// tracking access specifiers in order.
func (c *cursor) members(body *sitter.Node, class string, access decl.Access) []decl.Cursor {
	if body == nil {
		return nil
	}
	var items []item
	// nested includes are not followed, so expansion cannot fail
	_ = c.s.expand(context.Background(), c.f, body, &items, false)

	out := make([]decl.Cursor, 0, len(items))
	for _, it := range items {
		if it.n.Type() == "access_specifier" {
			access = parseAccess(it.n.Content(it.f.src), access)
			continue
		}
		out = append(out, c.s.classify(it.f, it.n, class, access))
	}
	return out
}

func parseAccess(text string, current decl.Access) decl.Access {
	switch strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ":")) {
	case "public":
		return decl.AccessPublic
	case "protected":
		return decl.AccessProtected
	case "private":
		return decl.AccessPrivate
	}
	return current
}

var deletedRE = regexp.MustCompile(`=\s*delete\s*;?\s*$`)

func (c *cursor) Availability() decl.Availability {
	if c.n == nil || c.s.closed {
		return decl.Available
	}
	text := strings.TrimSpace(c.n.Content(c.f.src))
	if deletedRE.MatchString(text) {
		return decl.NotAvailable
	}
	if strings.HasPrefix(text, deprecatedAttr) {
		return decl.Deprecated
	}
	for i := 0; i < int(c.n.NamedChildCount()); i++ {
		ch := c.n.NamedChild(i)
		switch ch.Type() {
		case "delete_method_clause":
			return decl.NotAvailable
		case "attribute_declaration":
			if strings.Contains(ch.Content(c.f.src), "deprecated") {
				return decl.Deprecated
			}
		}
	}
	return decl.Available
}

func (c *cursor) IsStatic() bool {
	if c.n == nil || c.s.closed {
		return false
	}
	for i := 0; i < int(c.n.NamedChildCount()); i++ {
		ch := c.n.NamedChild(i)
		if ch.Type() == "storage_class_specifier" && ch.Content(c.f.src) == "static" {
			return true
		}
	}
	return false
}

func (c *cursor) ResultType() decl.Type {
	if c.kind != decl.KindMethod || c.s.closed {
		return nil
	}
	base := c.s.baseType(c.f, c.n.ChildByFieldName("type"), hasConst(c.f, c.n))
	t, _, _ := c.s.declarate(c.f, base, c.n.ChildByFieldName("declarator"), true)
	return t
}

func (c *cursor) Args() []decl.Cursor {
	if c.fn == nil || c.s.closed {
		return nil
	}
	list := c.fn.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var args []decl.Cursor
	for i := 0; i < int(list.ChildCount()); i++ {
		p := list.Child(i)
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration":
			t, name := c.s.typeOf(c.f, p)
			args = append(args, &cursor{s: c.s, f: c.f, n: p, kind: decl.KindParam, name: name, typ: t})
		case "variadic_parameter_declaration", "...", "variadic_parameter":
			args = append(args, &cursor{
				s: c.s, f: c.f, n: p, kind: decl.KindParam,
				typ: &ctype{kind: decl.TypeInvalid, display: "..."},
			})
		}
	}

	// f(void) declares no parameters
	if len(args) == 1 {
		a := args[0].(*cursor)
		if a.name == "" && a.typ.kind == decl.TypeVoid {
			return nil
		}
	}
	return args
}

func (c *cursor) Type() decl.Type {
	if c.typ == nil || c.s.closed {
		return nil
	}
	return c.typ
}
