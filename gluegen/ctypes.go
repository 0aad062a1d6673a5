package gluegen

import (
	"strings"

	"github.com/chazu/v8gen/ir"
)

// EmitOptions names the things the three artifacts refer to.
type EmitOptions struct {
	Prefix       string // C symbol prefix; defaults to the API namespace
	EngineHeader string // engine include used on the C++ side
	TypesHeader  string // file name of the declaration header
	GlueHeader   string // file name of the C-ABI header
	ImplFile     string // file name of the C++ implementation
	Generator    string // name written into the generated-code banner
}

// DefaultEmitOptions returns the file names used when nothing is
// configured.
func DefaultEmitOptions(prefix string) EmitOptions {
	return EmitOptions{
		Prefix:       prefix,
		EngineHeader: "v8.h",
		TypesHeader:  prefix + "_types.h",
		GlueHeader:   prefix + "_glue.h",
		ImplFile:     prefix + "_glue.cc",
		Generator:    "v8gen",
	}
}

func (o EmitOptions) withDefaults(api *ir.API) EmitOptions {
	prefix := o.Prefix
	if prefix == "" {
		prefix = api.Namespace
	}
	d := DefaultEmitOptions(prefix)
	if o.EngineHeader != "" {
		d.EngineHeader = o.EngineHeader
	}
	if o.TypesHeader != "" {
		d.TypesHeader = o.TypesHeader
	}
	if o.GlueHeader != "" {
		d.GlueHeader = o.GlueHeader
	}
	if o.ImplFile != "" {
		d.ImplFile = o.ImplFile
	}
	if o.Generator != "" {
		d.Generator = o.Generator
	}
	return d
}

func banner(o EmitOptions, comment string) string {
	return comment + " Code generated by " + o.Generator + ". DO NOT EDIT.\n"
}

var builtinCTypes = map[ir.Builtin]string{
	ir.Void:      "void",
	ir.Bool:      "bool",
	ir.U8:        "uint8_t",
	ir.I8:        "int8_t",
	ir.U16:       "uint16_t",
	ir.I16:       "int16_t",
	ir.U32:       "uint32_t",
	ir.I32:       "int32_t",
	ir.U64:       "uint64_t",
	ir.I64:       "int64_t",
	ir.F64:       "double",
	ir.Char:      "char",
	ir.ConstChar: "const char",
	ir.Int:       "int",
	ir.UInt:      "unsigned int",
	ir.Long:      "long",
	ir.ULong:     "unsigned long",
}

// cType renders t as it appears in the C-ABI header.
func cType(prefix string, t ir.Type) string {
	switch v := t.(type) {
	case ir.Builtin:
		return builtinCTypes[v]
	case ir.ClassType:
		return PtrTypeName(prefix, v.Name)
	case ir.Ptr:
		if c, ok := v.Elem.(ir.ClassType); ok {
			return PtrTypeName(prefix, c.Name)
		}
		return cType(prefix, v.Elem) + "*"
	case ir.Ref:
		if c, ok := v.Elem.(ir.ClassType); ok {
			return RefTypeName(prefix, c.Name)
		}
		return "void*"
	case ir.Arr:
		return cType(prefix, v.Elem) + "*"
	}
	return "void*"
}

// cRetType renders a method's return type: the direct C type, a primitive
// Maybe struct, or a nullable reference for handle payloads.
func cRetType(prefix string, r ir.RetType) string {
	if r.Maybe {
		if k, ok := ir.PrimitiveMaybe(r.Type); ok {
			return MaybeTypeName(prefix, k.Suffix)
		}
	}
	return cType(prefix, r.Type)
}

// nativeClass is the fully qualified engine class, e.g. "v8::Object".
func nativeClass(namespace, class string) string {
	return namespace + "::" + class
}

// cParams renders the parameter list shared by the prototype and the body.
func cParams(prefix, class string, m ir.Method) string {
	params := []string{EnvTypeName(prefix) + "* env"}
	if !m.IsStatic {
		params = append(params, RefTypeName(prefix, class)+" self")
	}
	for _, a := range m.Args {
		params = append(params, cType(prefix, a.Type)+" "+a.Name)
	}
	return strings.Join(params, ", ")
}

func unwrapFuncName(k ir.MaybeKind) string {
	return "maybe_" + strings.ToLower(k.Suffix)
}
