package cpp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/chazu/v8gen/decl"
	"github.com/chazu/v8gen/gluegen"
	"github.com/chazu/v8gen/ir"
)

// extract unpacks a testdata archive into a temp dir and returns the dir.
func extract(t *testing.T, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	dir := t.TempDir()
	for _, f := range ar.Files {
		path := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return dir
}

func openEngine(t *testing.T) *Session {
	t.Helper()
	dir := extract(t, "engine.txtar")
	s, err := Open(context.Background(), filepath.Join(dir, "v8.h"), Options{Macros: DefaultMacros()})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func findClass(t *testing.T, root decl.Cursor, name string) decl.Cursor {
	t.Helper()
	for _, ns := range root.Children() {
		if ns.Kind() != decl.KindNamespace {
			continue
		}
		for _, c := range ns.Children() {
			if c.Kind() == decl.KindClass && c.Name() == name && len(c.Children()) > 0 {
				return c
			}
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

func members(c decl.Cursor, name string) []decl.Cursor {
	var out []decl.Cursor
	for _, m := range c.Children() {
		if m.Name() == name {
			out = append(out, m)
		}
	}
	return out
}

func TestOpenFollowsIncludes(t *testing.T) {
	s := openEngine(t)

	files := s.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "v8.h", filepath.Base(files[0]))
	assert.Equal(t, "v8-value.h", filepath.Base(files[1]))

	root, err := s.Root()
	require.NoError(t, err)
	assert.Equal(t, decl.KindTranslationUnit, root.Kind())

	var namespaces int
	for _, c := range root.Children() {
		if c.Kind() == decl.KindNamespace && c.Name() == "v8" {
			namespaces++
		}
	}
	assert.Equal(t, 2, namespaces)
}

func TestOpenMissingHeader(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.h"), Options{})
	assert.Error(t, err)
}

func TestRootAfterClose(t *testing.T) {
	s := openEngine(t)
	s.Close()
	_, err := s.Root()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClassMembers(t *testing.T) {
	s := openEngine(t)
	root, err := s.Root()
	require.NoError(t, err)
	obj := findClass(t, root, "Object")

	sets := members(obj, "Set")
	require.Len(t, sets, 2)
	for _, m := range sets {
		assert.Equal(t, decl.KindMethod, m.Kind())
		assert.Equal(t, decl.AccessPublic, m.Access())
		assert.Equal(t, decl.Available, m.Availability())
	}

	args := sets[1].Args()
	require.Len(t, args, 3)
	assert.Equal(t, "context", args[0].Name())
	assert.Equal(t, decl.TypeUnexposed, args[0].Type().Kind())
	targs := args[0].Type().TemplateArgs()
	require.Len(t, targs, 1)
	assert.Equal(t, decl.TypeRecord, targs[0].Kind())
	assert.Equal(t, "Context", targs[0].DisplayName())
	assert.Equal(t, "index", args[1].Name())
	assert.Equal(t, decl.TypeTypedef, args[1].Type().Kind())
	assert.Equal(t, "uint32_t", args[1].Type().DisplayName())

	ret := sets[1].ResultType()
	require.NotNil(t, ret)
	assert.Equal(t, "Maybe<bool>", ret.DisplayName())

	get := members(obj, "Get")
	require.Len(t, get, 1)
	assert.Equal(t, decl.Deprecated, get[0].Availability())

	reset := members(obj, "Reset")
	require.Len(t, reset, 1)
	assert.Equal(t, decl.NotAvailable, reset[0].Availability())

	newFn := members(obj, "New")
	require.Len(t, newFn, 1)
	assert.True(t, newFn[0].IsStatic())
	p := newFn[0].Args()[0].Type()
	assert.Equal(t, decl.TypePointer, p.Kind())
	assert.Equal(t, decl.TypeRecord, p.Pointee().Kind())

	describe := members(obj, "Describe")
	require.Len(t, describe, 1)
	r := describe[0].ResultType()
	assert.Equal(t, decl.TypePointer, r.Kind())
	assert.True(t, r.Pointee().IsConst())
	assert.Equal(t, decl.TypeCharS, r.Pointee().Kind())
	buf := describe[0].Args()[1].Type()
	assert.False(t, buf.Pointee().IsConst())

	op := members(obj, "operator==")
	require.Len(t, op, 1)
	assert.Equal(t, decl.KindMethod, op[0].Kind())

	ctor := members(obj, "Object")
	require.Len(t, ctor, 1)
	assert.Equal(t, decl.KindConstructor, ctor[0].Kind())

	hidden := members(obj, "Hidden")
	require.Len(t, hidden, 1)
	assert.Equal(t, decl.AccessPrivate, hidden[0].Access())

	field := members(obj, "field_")
	require.Len(t, field, 1)
	assert.Equal(t, decl.KindField, field[0].Kind())
}

func TestStructDefaultsPublic(t *testing.T) {
	s := openEngine(t)
	root, err := s.Root()
	require.NoError(t, err)
	helper := findClass(t, root, "Helper")

	visible := members(helper, "Visible")
	require.Len(t, visible, 1)
	assert.Equal(t, decl.AccessPublic, visible[0].Access())
	assert.Empty(t, visible[0].Args(), "(void) declares no parameters")

	wide := members(helper, "Wide")
	require.Len(t, wide, 1)
	args := wide[0].Args()
	require.Len(t, args, 2)
	assert.Equal(t, decl.TypeULong, args[0].Type().Kind())
	assert.Equal(t, decl.TypeLongLong, args[1].Type().Kind())
}

func TestEnumsAndTypedefs(t *testing.T) {
	s := openEngine(t)
	root, err := s.Root()
	require.NoError(t, err)
	value := findClass(t, root, "Value")

	filter := members(value, "Filter")
	require.Len(t, filter, 1)
	args := filter[0].Args()
	require.Len(t, args, 2)
	assert.Equal(t, decl.TypeEnum, args[0].Type().Kind())
	assert.Equal(t, decl.TypeTypedef, args[1].Type().Kind())
}

func TestConditionalTakesFirstBranch(t *testing.T) {
	s := openEngine(t)
	root, err := s.Root()
	require.NoError(t, err)

	var names []string
	for _, ns := range root.Children() {
		for _, c := range ns.Children() {
			if c.Kind() == decl.KindClass {
				names = append(names, c.Name())
			}
		}
	}
	assert.Contains(t, names, "Checked")
	assert.NotContains(t, names, "Unchecked")
}

func TestBuildFromHeader(t *testing.T) {
	s := openEngine(t)
	root, err := s.Root()
	require.NoError(t, err)

	res, err := gluegen.Build(root, gluegen.Options{Namespace: "v8"})
	require.NoError(t, err)
	s.Close()

	api := res.API
	assert.Equal(t, []string{"Value", "Context", "String", "Object", "Helper", "Checked"}, api.ClassNames())

	obj := api.Class("Object")
	require.NotNil(t, obj)
	var mangled []string
	for _, m := range obj.Methods {
		mangled = append(mangled, m.MangledName)
	}
	assert.Equal(t, []string{"Set_Key", "Set_Index", "New", "GetIdentityHash", "Describe"}, mangled)

	setIndex := obj.Method("Set_Index")
	require.NotNil(t, setIndex)
	assert.Equal(t, ir.Maybe(ir.Bool), setIndex.RetType)
	assert.Equal(t, ir.Ref{Elem: ir.ClassType{Name: "Context"}}, setIndex.Args[0].Type)
	assert.Equal(t, ir.U32, setIndex.Args[1].Type)

	newFn := obj.Method("New")
	require.NotNil(t, newFn)
	assert.True(t, newFn.IsStatic)
	assert.Equal(t, ir.Maybe(ir.Ref{Elem: ir.ClassType{Name: "Object"}}), newFn.RetType)

	describe := obj.Method("Describe")
	require.NotNil(t, describe)
	assert.Equal(t, ir.Direct(ir.Ptr{Elem: ir.ConstChar}), describe.RetType)

	// Filter takes an enum, Wide takes long long
	var dropped []string
	for _, sk := range res.Skipped {
		dropped = append(dropped, sk.Class+"::"+sk.Method)
	}
	assert.Contains(t, dropped, "Value::Filter")
	assert.Contains(t, dropped, "Helper::Wide")
}
