package gluegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/v8gen/decl"
	"github.com/chazu/v8gen/ir"
)

// ContextClass is the engine class whose handle arguments get an execution
// context scope around the call.
const ContextClass = "Context"

// Options controls model assembly.
type Options struct {
	Namespace string  // target namespace, e.g. "v8"
	Tables    *Tables // nil means DefaultTables()
}

// Skipped records a declaration that was dropped from the model.
type Skipped struct {
	Class  string
	Method string
	Decl   string // display name of the offending declaration or type
	Kind   string // its cursor or type kind
	Reason string
}

func (s Skipped) String() string {
	if s.Method == "" {
		return fmt.Sprintf("%s: %s (%s): %s", s.Class, s.Decl, s.Kind, s.Reason)
	}
	return fmt.Sprintf("%s::%s: %s (%s): %s", s.Class, s.Method, s.Decl, s.Kind, s.Reason)
}

// Result is the assembled model plus everything that did not make it in.
type Result struct {
	API     *ir.API
	Skipped []Skipped
}

// ErrUnreadableRoot is returned when the declaration tree has no usable
// root.
var ErrUnreadableRoot = errors.New("declaration tree root is not a translation unit")

type builder struct {
	namespace string
	tables    *Tables
	mapper    *TypeMapper
	skipped   []Skipped
}

// Build extracts, maps and mangles every eligible class under root.
//
// All tree queries happen inside Build; the returned model holds no
// references into the declaration tree, so the caller may release the
// front end session as soon as Build returns. Per-method failures are
// logged and reported in Result.Skipped; only an unusable root is fatal.
func Build(root decl.Cursor, opts Options) (*Result, error) {
	if root == nil || root.Kind() != decl.KindTranslationUnit {
		return nil, ErrUnreadableRoot
	}
	if opts.Namespace == "" {
		return nil, errors.New("no target namespace")
	}
	tables := opts.Tables
	if tables == nil {
		tables = DefaultTables()
	}

	b := &builder{
		namespace: opts.Namespace,
		tables:    tables,
		mapper:    NewTypeMapper(opts.Namespace, tables),
	}

	raw := b.extractClasses(root)

	known := make(map[string]bool, len(raw))
	for _, rc := range raw {
		known[rc.name] = true
	}

	api := &ir.API{Namespace: opts.Namespace}
	for _, rc := range raw {
		class := ir.Class{Name: rc.name}
		symbols := make(map[string]bool)

		for _, rm := range rc.methods {
			m, err := b.mapMethod(rm)
			if err == nil {
				err = b.validate(m, known)
			}
			if err == nil && symbols[m.MangledName] {
				err = fmt.Errorf("symbol %s already generated for an earlier overload", FunctionName(opts.Namespace, rc.name, m.MangledName))
			}
			if err != nil {
				b.skipMethod(rc.name, rm, err)
				continue
			}
			symbols[m.MangledName] = true
			class.Methods = append(class.Methods, m)
		}

		api.Classes = append(api.Classes, class)
	}

	log.Infof("assembled %d classes, %d methods skipped", len(api.Classes), len(b.skipped))
	return &Result{API: api, Skipped: b.skipped}, nil
}

func (b *builder) mapMethod(rm rawMethod) (ir.Method, error) {
	ret, err := b.mapper.RetType(rm.ret)
	if err != nil {
		return ir.Method{}, fmt.Errorf("return type: %w", err)
	}

	args := make([]ir.Arg, len(rm.args))
	names := make([]string, len(rm.args))
	for i, ra := range rm.args {
		t, err := b.mapper.Type(ra.typ)
		if err != nil {
			return ir.Method{}, fmt.Errorf("argument %s: %w", ra.name, err)
		}
		if t == ir.Void {
			return ir.Method{}, fmt.Errorf("argument %s: void argument", ra.name)
		}
		args[i] = ir.Arg{Name: ra.name, Type: t}
		names[i] = ra.name
	}

	return ir.Method{
		IsStatic:    rm.isStatic,
		Name:        rm.name,
		MangledName: b.tables.MangledName(rm.name, names),
		Args:        args,
		RetType:     ret,
	}, nil
}

// validate enforces the invariants the emitters rely on.
func (b *builder) validate(m ir.Method, known map[string]bool) error {
	if _, ok := m.RetType.Type.(ir.ClassType); ok {
		return fmt.Errorf("returns class %s by value", m.RetType.Type)
	}

	contexts := 0
	for i, a := range m.Args {
		if reservedArgName(a.Name) {
			return fmt.Errorf("argument name %s is reserved", a.Name)
		}
		if _, ok := a.Type.(ir.ClassType); ok {
			return fmt.Errorf("argument %s: class %s passed by value", a.Name, a.Type)
		}
		if c, ok := ir.RefClass(a.Type); ok && c == ContextClass {
			contexts++
		}
		if arr, ok := a.Type.(ir.Arr); ok {
			if _, isRef := arr.Elem.(ir.Ref); isRef && countArg(m.Args[:i]) < 0 {
				return fmt.Errorf("argument %s: handle array without a preceding count argument", a.Name)
			}
		}
	}
	if contexts > 1 {
		return fmt.Errorf("%d context arguments, at most one is supported", contexts)
	}

	var unknown string
	check := func(name string) {
		if unknown == "" && !known[name] && !b.tables.IsRecognized(name) {
			unknown = name
		}
	}
	ir.Classes(m.RetType.Type, check)
	for _, a := range m.Args {
		ir.Classes(a.Type, check)
	}
	if unknown != "" {
		return fmt.Errorf("refers to class %s which is not modeled", unknown)
	}
	return nil
}

// ArgLocalPrefix starts the C++ local holding a converted argument.
const ArgLocalPrefix = "arg_"

// reservedArgName reports whether name would clash with a generated
// parameter or local: env and self are parameters, generated locals end in
// an underscore, and converted arguments use ArgLocalPrefix.
func reservedArgName(name string) bool {
	return name == "env" || name == "self" ||
		strings.HasPrefix(name, ArgLocalPrefix) || strings.HasSuffix(name, "_")
}

// countArg returns the index of the last integer argument, or -1.
func countArg(args []ir.Arg) int {
	for i := len(args) - 1; i >= 0; i-- {
		if ir.IsInteger(args[i].Type) {
			return i
		}
	}
	return -1
}

func (b *builder) skip(s Skipped) {
	log.Warning("dropping declaration", "class", s.Class, "method", s.Method, "decl", s.Decl, "kind", s.Kind, "reason", s.Reason)
	b.skipped = append(b.skipped, s)
}

func (b *builder) skipMethod(class string, rm rawMethod, err error) {
	s := Skipped{
		Class:  class,
		Method: rm.name,
		Decl:   rm.display,
		Kind:   decl.KindMethod.String(),
		Reason: err.Error(),
	}
	var me *MappingError
	if errors.As(err, &me) {
		s.Decl = me.Display
		s.Kind = me.Kind.String()
	}
	b.skip(s)
}
