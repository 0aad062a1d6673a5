package gluegen

import (
	"fmt"
	"strings"

	"github.com/chazu/v8gen/decl"
	"github.com/chazu/v8gen/ir"
)

const (
	handlePrefix      = "Local<"
	maybeHandlePrefix = "MaybeLocal<"
	maybePrefix       = "Maybe<"
)

// MappingError reports a type that has no IR representation.
type MappingError struct {
	Display string
	Kind    decl.TypeKind
	Reason  string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %q (%s): %s", e.Display, e.Kind, e.Reason)
}

func mappingErr(t decl.Type, reason string) error {
	return &MappingError{Display: t.DisplayName(), Kind: t.Kind(), Reason: reason}
}

// TypeMapper converts foreign type expressions into IR types.
type TypeMapper struct {
	scope  string // "<namespace>::"
	tables *Tables
}

// NewTypeMapper returns a mapper that strips the given namespace from
// record names.
func NewTypeMapper(namespace string, tables *Tables) *TypeMapper {
	return &TypeMapper{scope: namespace + "::", tables: tables}
}

// Type maps an argument or payload type.
func (m *TypeMapper) Type(t decl.Type) (ir.Type, error) {
	if t == nil {
		return nil, &MappingError{Kind: decl.TypeInvalid, Reason: "missing type"}
	}

	switch t.Kind() {
	case decl.TypeVoid:
		return ir.Void, nil
	case decl.TypeBool:
		return ir.Bool, nil
	case decl.TypeCharS, decl.TypeCharU, decl.TypeSChar, decl.TypeUChar:
		if t.IsConst() {
			return ir.ConstChar, nil
		}
		return ir.Char, nil
	case decl.TypeInt:
		return ir.Int, nil
	case decl.TypeUInt:
		return ir.UInt, nil
	case decl.TypeLong:
		return ir.Long, nil
	case decl.TypeULong:
		return ir.ULong, nil
	case decl.TypeDouble:
		return ir.F64, nil

	case decl.TypePointer:
		pointee := t.Pointee()
		if pointee == nil {
			return nil, mappingErr(t, "pointer without pointee")
		}
		inner, err := m.Type(pointee)
		if err != nil {
			return nil, err
		}
		return ir.Ptr{Elem: inner}, nil

	case decl.TypeIncompleteArray:
		elem := t.Element()
		if elem == nil {
			return nil, mappingErr(t, "array without element type")
		}
		inner, err := m.Type(elem)
		if err != nil {
			return nil, err
		}
		return ir.Arr{Elem: inner}, nil

	case decl.TypeRecord:
		name := m.unqualified(t.DisplayName())
		if strings.Contains(name, "::") {
			return nil, mappingErr(t, "nested types are not supported")
		}
		return ir.ClassType{Name: name}, nil

	case decl.TypeTypedef:
		name := strings.TrimPrefix(t.DisplayName(), "const ")
		if b, ok := fixedWidthTypedefs[name]; ok {
			return b, nil
		}
		return nil, mappingErr(t, "typedef is not a fixed-width integer")

	case decl.TypeUnexposed:
		name := m.unqualified(t.DisplayName())
		if strings.HasPrefix(name, handlePrefix) {
			return m.handle(t)
		}
		if class, ok := m.tables.Unexposed[name]; ok {
			return ir.ClassType{Name: class}, nil
		}
		return nil, mappingErr(t, "unexposed type")
	}

	return nil, mappingErr(t, "unsupported kind")
}

// RetType maps a return type, detecting the fallible wrappers first.
//
// A bare handle return is fallible as well: an empty handle is the only
// way the engine reports failure for it, and it crosses the C boundary as
// a null reference either way.
func (m *TypeMapper) RetType(t decl.Type) (ir.RetType, error) {
	if t == nil {
		return ir.RetType{}, &MappingError{Kind: decl.TypeInvalid, Reason: "missing return type"}
	}

	if t.Kind() == decl.TypeUnexposed {
		name := m.unqualified(t.DisplayName())
		switch {
		case strings.HasPrefix(name, maybeHandlePrefix), strings.HasPrefix(name, handlePrefix):
			ref, err := m.handle(t)
			if err != nil {
				return ir.RetType{}, err
			}
			return ir.Maybe(ref), nil

		case strings.HasPrefix(name, maybePrefix):
			payload, err := m.firstArg(t)
			if err != nil {
				return ir.RetType{}, err
			}
			if !ir.MaybePayloadOK(payload) {
				return ir.RetType{}, mappingErr(t, "unsupported fallible payload "+payload.String())
			}
			return ir.Maybe(payload), nil
		}
	}

	direct, err := m.Type(t)
	if err != nil {
		return ir.RetType{}, err
	}
	return ir.Direct(direct), nil
}

// handle maps Local<T> and MaybeLocal<T> to Ref(T). Handles only ever
// point at classes.
func (m *TypeMapper) handle(t decl.Type) (ir.Type, error) {
	inner, err := m.firstArg(t)
	if err != nil {
		return nil, err
	}
	if _, ok := inner.(ir.ClassType); !ok {
		return nil, mappingErr(t, "handle to non-class "+inner.String())
	}
	return ir.Ref{Elem: inner}, nil
}

func (m *TypeMapper) firstArg(t decl.Type) (ir.Type, error) {
	args := t.TemplateArgs()
	if len(args) == 0 || args[0] == nil {
		return nil, mappingErr(t, "template without type argument")
	}
	return m.Type(args[0])
}

// unqualified strips const qualification and the target namespace prefix.
func (m *TypeMapper) unqualified(display string) string {
	name := strings.TrimSpace(strings.TrimPrefix(display, "const "))
	return strings.TrimPrefix(name, m.scope)
}
