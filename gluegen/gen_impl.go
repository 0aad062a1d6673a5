package gluegen

import (
	"fmt"
	"strings"

	"github.com/chazu/v8gen/ir"
)

// GenerateImpl produces the C++ implementation: one body per method that
// bridges the C-ABI call into the engine, plus the clone/destroy
// boilerplate per class.
//
// api is expected to satisfy the checks Build applies. A handle array
// without a preceding count argument is emitted as an #error directive.
func GenerateImpl(api *ir.API, opts EmitOptions) string {
	o := opts.withDefaults(api)
	g := &implGen{ns: api.Namespace, prefix: o.Prefix, generator: o.Generator}

	var b strings.Builder
	b.WriteString(banner(o, "//"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "#include \"%s\"\n\n", o.GlueHeader)
	b.WriteString("#include <cstdint>\n#include <vector>\n\n")
	fmt.Fprintf(&b, "#include \"%s\"\n\n", o.EngineHeader)

	g.writeHelpers(&b)

	b.WriteString("extern \"C\" {\n\n")
	for _, c := range api.Classes {
		fmt.Fprintf(&b, "// %s\n\n", c.Name)
		g.writeBoilerplate(&b, c.Name)
		for _, m := range c.Methods {
			g.writeMethod(&b, c.Name, m)
		}
	}
	b.WriteString("}  // extern \"C\"\n")
	return b.String()
}

type implGen struct {
	ns        string
	prefix    string
	generator string
}

func (g *implGen) writeHelpers(b *strings.Builder) {
	ns := g.ns
	env := EnvTypeName(g.prefix)

	b.WriteString("namespace {\n\n")

	fmt.Fprintf(b, "template <class T>\n%s::Local<T> local_from_ref(%s::Isolate* isolate, %s::Persistent<T>* ref) {\n", ns, ns, ns)
	b.WriteString("  if (ref == nullptr) {\n")
	fmt.Fprintf(b, "    return %s::Local<T>();\n", ns)
	b.WriteString("  }\n")
	b.WriteString("  return ref->Get(isolate);\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "template <class T>\nstd::vector<%s::Local<T>> locals_from_refs(%s::Isolate* isolate, %s::Persistent<T>** refs, int64_t count) {\n", ns, ns, ns)
	fmt.Fprintf(b, "  std::vector<%s::Local<T>> locals;\n", ns)
	b.WriteString("  for (int64_t i = 0; i < count; i++) {\n")
	b.WriteString("    locals.push_back(local_from_ref(isolate, refs[i]));\n")
	b.WriteString("  }\n")
	b.WriteString("  return locals;\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "template <class T>\n%s::Persistent<T>* ref_from_local(%s::Isolate* isolate, %s::Local<T> local) {\n", ns, ns, ns)
	b.WriteString("  if (local.IsEmpty()) {\n")
	b.WriteString("    return nullptr;\n")
	b.WriteString("  }\n")
	fmt.Fprintf(b, "  return new %s::Persistent<T>(isolate, local);\n", ns)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "template <class T>\n%s::Persistent<T>* ref_from_maybe_local(%s::Isolate* isolate, %s::MaybeLocal<T> maybe) {\n", ns, ns, ns)
	fmt.Fprintf(b, "  %s::Local<T> local;\n", ns)
	b.WriteString("  if (!maybe.ToLocal(&local)) {\n")
	b.WriteString("    return nullptr;\n")
	b.WriteString("  }\n")
	fmt.Fprintf(b, "  return new %s::Persistent<T>(isolate, local);\n", ns)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "template <class T>\n%s::Persistent<T>* ref_from_maybe_local(%s::Isolate* isolate, %s::Local<T> local) {\n", ns, ns, ns)
	b.WriteString("  return ref_from_local(isolate, local);\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "void capture_exception(%s* env, %s::Isolate* isolate, const %s::TryCatch& try_catch) {\n", env, ns, ns)
	b.WriteString("  env->exception = ref_from_local(isolate, try_catch.Exception());\n")
	b.WriteString("  env->message = ref_from_local(isolate, try_catch.Message());\n")
	b.WriteString("}\n\n")

	for _, k := range ir.MaybeFamily {
		name := MaybeTypeName(g.prefix, k.Suffix)
		fmt.Fprintf(b, "%s %s(%s::Maybe<%s> maybe) {\n", name, unwrapFuncName(k), ns, k.CType)
		fmt.Fprintf(b, "  %s out = {};\n", name)
		b.WriteString("  if (maybe.IsJust()) {\n")
		b.WriteString("    out.is_set = true;\n")
		b.WriteString("    out.value = maybe.FromJust();\n")
		b.WriteString("  }\n")
		b.WriteString("  return out;\n")
		b.WriteString("}\n\n")
	}

	b.WriteString("}  // namespace\n\n")
}

func (g *implGen) writeBoilerplate(b *strings.Builder, class string) {
	ns := g.ns
	native := nativeClass(ns, class)
	ref := RefTypeName(g.prefix, class)
	ptr := PtrTypeName(g.prefix, class)

	fmt.Fprintf(b, "%s %s(%s* env, %s self) {\n", ref, CloneRefName(g.prefix, class), EnvTypeName(g.prefix), ref)
	b.WriteString("  if (self == nullptr) {\n")
	b.WriteString("    return nullptr;\n")
	b.WriteString("  }\n")
	fmt.Fprintf(b, "  %s::Isolate* isolate_ = static_cast<%s::Isolate*>(env->isolate);\n", ns, ns)
	fmt.Fprintf(b, "  return new %s::Persistent<%s>(isolate_, *self);\n", ns, native)
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "void %s(%s self) {\n", DestroyRefName(g.prefix, class), ref)
	b.WriteString("  if (self == nullptr) {\n")
	b.WriteString("    return;\n")
	b.WriteString("  }\n")
	b.WriteString("  self->Reset();\n")
	b.WriteString("  delete self;\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(b, "void %s(%s self) {\n", DestroyPtrName(g.prefix, class), ptr)
	b.WriteString("  delete self;\n")
	b.WriteString("}\n\n")
}

func (g *implGen) writeMethod(b *strings.Builder, class string, m ir.Method) {
	ns := g.ns

	fmt.Fprintf(b, "%s %s(%s) {\n",
		cRetType(g.prefix, m.RetType),
		FunctionName(g.prefix, class, m.MangledName),
		cParams(g.prefix, class, m))

	// Scopes are RAII objects and unwind on every return path.
	fmt.Fprintf(b, "  %s::Isolate* isolate_ = static_cast<%s::Isolate*>(env->isolate);\n", ns, ns)
	fmt.Fprintf(b, "  %s::Isolate::Scope isolate_scope_(isolate_);\n", ns)
	fmt.Fprintf(b, "  %s::HandleScope handle_scope_(isolate_);\n", ns)
	fmt.Fprintf(b, "  %s::TryCatch try_catch_(isolate_);\n", ns)

	if !m.IsStatic {
		fmt.Fprintf(b, "  %s::Local<%s> self_ = local_from_ref(isolate_, self);\n", ns, nativeClass(ns, class))
	}

	contextArg := ""
	callArgs := make([]string, len(m.Args))
	for i, a := range m.Args {
		callArgs[i] = g.writeArgConversion(b, m.Args, i)
		if c, ok := ir.RefClass(a.Type); ok && c == ContextClass {
			contextArg = callArgs[i]
		}
	}
	if contextArg != "" {
		fmt.Fprintf(b, "  %s::Context::Scope context_scope_(%s);\n", ns, contextArg)
	}

	var call string
	if m.IsStatic {
		call = fmt.Sprintf("%s::%s(%s)", nativeClass(ns, class), m.Name, strings.Join(callArgs, ", "))
	} else {
		call = fmt.Sprintf("self_->%s(%s)", m.Name, strings.Join(callArgs, ", "))
	}

	if m.RetType.IsVoid() {
		fmt.Fprintf(b, "  %s;\n", call)
	} else {
		fmt.Fprintf(b, "  auto result_ = %s;\n", call)
	}

	b.WriteString("  if (try_catch_.HasCaught()) {\n")
	b.WriteString("    capture_exception(env, isolate_, try_catch_);\n")
	b.WriteString("  }\n")

	if !m.RetType.IsVoid() {
		fmt.Fprintf(b, "  return %s;\n", g.resultConversion(m.RetType))
	}
	b.WriteString("}\n\n")
}

// writeArgConversion emits the native form of argument i, if it needs one,
// and returns the expression to pass to the engine. Converted arguments live
// in arg_<name> locals; the generated scope locals all end in an underscore.
func (g *implGen) writeArgConversion(b *strings.Builder, args []ir.Arg, i int) string {
	a := args[i]
	ns := g.ns
	local := ArgLocalPrefix + a.Name

	switch t := a.Type.(type) {
	case ir.Ref:
		if c, ok := t.Elem.(ir.ClassType); ok {
			fmt.Fprintf(b, "  %s::Local<%s> %s = local_from_ref(isolate_, %s);\n", ns, nativeClass(ns, c.Name), local, a.Name)
			return local
		}
	case ir.Arr:
		if r, ok := t.Elem.(ir.Ref); ok {
			c, _ := r.Elem.(ir.ClassType)
			n := countArg(args[:i])
			if n < 0 {
				// Build drops such methods; a hand-built API gets a
				// compile error instead of a guessed count.
				fmt.Fprintf(b, "#error \"%s: handle array %s has no count argument\"\n", g.generator, a.Name)
				return a.Name
			}
			count := args[n].Name
			fmt.Fprintf(b, "  std::vector<%s::Local<%s>> %s = locals_from_refs(isolate_, %s, %s);\n",
				ns, nativeClass(ns, c.Name), local, a.Name, count)
			return local + ".data()"
		}
	}
	return a.Name
}

func (g *implGen) resultConversion(r ir.RetType) string {
	if r.Maybe {
		if k, ok := ir.PrimitiveMaybe(r.Type); ok {
			return unwrapFuncName(k) + "(result_)"
		}
		return "ref_from_maybe_local(isolate_, result_)"
	}
	if _, ok := ir.RefClass(r.Type); ok {
		return "ref_from_local(isolate_, result_)"
	}
	return "result_"
}
