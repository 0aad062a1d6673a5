package gluegen

import (
	"fmt"
	"strings"

	"github.com/chazu/v8gen/ir"
)

// GenerateHeader produces the C-ABI header: the execution-context struct,
// the primitive Maybe structs, and one prototype per method plus the
// clone/destroy boilerplate per class.
func GenerateHeader(api *ir.API, opts EmitOptions) string {
	o := opts.withDefaults(api)
	guard := guardName(o.GlueHeader)
	env := EnvTypeName(o.Prefix)

	var b strings.Builder
	b.WriteString(banner(o, "//"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString("#include <stdbool.h>\n#include <stdint.h>\n\n")
	fmt.Fprintf(&b, "#include \"%s\"\n\n", o.TypesHeader)
	b.WriteString("#ifdef __cplusplus\nextern \"C\" {\n#endif\n\n")

	// Exception and message are written as persistent references when a
	// call throws; the caller owns them.
	fmt.Fprintf(&b, "typedef struct %s {\n", env)
	b.WriteString("  void* isolate;\n")
	b.WriteString("  void* exception;\n")
	b.WriteString("  void* message;\n")
	fmt.Fprintf(&b, "} %s;\n\n", env)

	for _, k := range ir.MaybeFamily {
		name := MaybeTypeName(o.Prefix, k.Suffix)
		fmt.Fprintf(&b, "typedef struct %s {\n", name)
		b.WriteString("  bool is_set;\n")
		fmt.Fprintf(&b, "  %s value;\n", k.CType)
		fmt.Fprintf(&b, "} %s;\n\n", name)
	}

	for _, c := range api.Classes {
		ref := RefTypeName(o.Prefix, c.Name)
		ptr := PtrTypeName(o.Prefix, c.Name)

		fmt.Fprintf(&b, "// %s\n\n", c.Name)
		fmt.Fprintf(&b, "%s %s(%s* env, %s self);\n", ref, CloneRefName(o.Prefix, c.Name), env, ref)
		fmt.Fprintf(&b, "void %s(%s self);\n", DestroyRefName(o.Prefix, c.Name), ref)
		fmt.Fprintf(&b, "void %s(%s self);\n", DestroyPtrName(o.Prefix, c.Name), ptr)

		for _, m := range c.Methods {
			fmt.Fprintf(&b, "%s %s(%s);\n",
				cRetType(o.Prefix, m.RetType),
				FunctionName(o.Prefix, c.Name, m.MangledName),
				cParams(o.Prefix, c.Name, m))
		}
		b.WriteString("\n")
	}

	b.WriteString("#ifdef __cplusplus\n}  // extern \"C\"\n#endif\n\n")
	fmt.Fprintf(&b, "#endif  // %s\n", guard)
	return b.String()
}
