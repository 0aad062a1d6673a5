package gluegen

import "strings"

// MangledName returns the external symbol suffix for a method: the symbol
// of the first mangle-table entry matching the method name and one of its
// argument names, or the name itself.
func (t *Tables) MangledName(name string, argNames []string) string {
	for _, e := range t.Mangle {
		if e.Name != name {
			continue
		}
		for _, a := range argNames {
			if a == e.UniqueArg {
				return e.Symbol
			}
		}
	}
	return name
}

// FunctionName is the C symbol of a generated method,
// e.g. "v8", "Object", "Set_Index" -> "v8_Object_Set_Index".
func FunctionName(prefix, class, mangled string) string {
	return prefix + "_" + class + "_" + mangled
}

// PtrTypeName is the C alias for a bare pointer to class, e.g. "v8_Value_ptr".
func PtrTypeName(prefix, class string) string {
	return prefix + "_" + class + "_ptr"
}

// RefTypeName is the C alias for a persistent reference to class,
// e.g. "v8_Value_ref".
func RefTypeName(prefix, class string) string {
	return prefix + "_" + class + "_ref"
}

// CloneRefName, DestroyRefName and DestroyPtrName are the per-class
// boilerplate symbols. The double underscore keeps them apart from method
// symbols.
func CloneRefName(prefix, class string) string   { return prefix + "_" + class + "__clone_ref" }
func DestroyRefName(prefix, class string) string { return prefix + "_" + class + "__destroy_ref" }
func DestroyPtrName(prefix, class string) string { return prefix + "_" + class + "__destroy_ptr" }

// MaybeTypeName is the C result struct for a primitive Maybe payload,
// e.g. "v8", "Bool" -> "v8_MaybeBool".
func MaybeTypeName(prefix, suffix string) string {
	return prefix + "_Maybe" + suffix
}

// EnvTypeName is the execution-context struct passed to every call.
func EnvTypeName(prefix string) string {
	return prefix + "_Env"
}

// guardName turns a file name into an include-guard macro,
// e.g. "v8_glue.h" -> "V8_GLUE_H_".
func guardName(file string) string {
	var b strings.Builder
	for _, r := range file {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	b.WriteByte('_')
	return b.String()
}
