package gluegen

import (
	"fmt"
	"strings"

	"github.com/chazu/v8gen/ir"
)

// GenerateTypes produces the declaration header: a pointer alias and a
// persistent-reference alias per class, real engine types for C++ and void
// pointers for C.
func GenerateTypes(api *ir.API, opts EmitOptions) string {
	o := opts.withDefaults(api)
	guard := guardName(o.TypesHeader)

	var b strings.Builder
	b.WriteString(banner(o, "//"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)

	b.WriteString("#ifdef __cplusplus\n\n")
	fmt.Fprintf(&b, "#include \"%s\"\n\n", o.EngineHeader)
	classes := aliasedClasses(api)
	for _, c := range classes {
		native := nativeClass(api.Namespace, c)
		fmt.Fprintf(&b, "typedef %s* %s;\n", native, PtrTypeName(o.Prefix, c))
		fmt.Fprintf(&b, "typedef %s::Persistent<%s>* %s;\n", api.Namespace, native, RefTypeName(o.Prefix, c))
	}

	b.WriteString("\n#else\n\n")
	for _, c := range classes {
		fmt.Fprintf(&b, "typedef void* %s;\n", PtrTypeName(o.Prefix, c))
		fmt.Fprintf(&b, "typedef void* %s;\n", RefTypeName(o.Prefix, c))
	}

	b.WriteString("\n#endif  // __cplusplus\n\n")
	fmt.Fprintf(&b, "#endif  // %s\n", guard)
	return b.String()
}

// aliasedClasses lists the modeled classes followed by every other class a
// signature refers to (e.g., Isolate), in order of first reference.
func aliasedClasses(api *ir.API) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, c := range api.Classes {
		add(c.Name)
	}
	for _, c := range api.Classes {
		for _, m := range c.Methods {
			ir.Classes(m.RetType.Type, add)
			for _, a := range m.Args {
				ir.Classes(a.Type, add)
			}
		}
	}
	return out
}
