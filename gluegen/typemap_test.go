package gluegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/v8gen/decl"
	"github.com/chazu/v8gen/ir"
)

func newMapper() *TypeMapper {
	return NewTypeMapper("v8", DefaultTables())
}

func local(class string) *decl.TypeExpr {
	return decl.Unexposed("v8::Local<v8::"+class+">", decl.Record("v8::"+class))
}

var mappable = []struct {
	name string
	in   *decl.TypeExpr
	want ir.Type
}{
	{"void", decl.Builtin(decl.TypeVoid), ir.Void},
	{"bool", decl.Builtin(decl.TypeBool), ir.Bool},
	{"char", decl.Builtin(decl.TypeCharS), ir.Char},
	{"const char", decl.Const(decl.Builtin(decl.TypeCharS)), ir.ConstChar},
	{"int", decl.Builtin(decl.TypeInt), ir.Int},
	{"unsigned int", decl.Builtin(decl.TypeUInt), ir.UInt},
	{"long", decl.Builtin(decl.TypeLong), ir.Long},
	{"unsigned long", decl.Builtin(decl.TypeULong), ir.ULong},
	{"double", decl.Builtin(decl.TypeDouble), ir.F64},
	{"uint8_t", decl.Typedef("uint8_t"), ir.U8},
	{"int8_t", decl.Typedef("int8_t"), ir.I8},
	{"uint16_t", decl.Typedef("uint16_t"), ir.U16},
	{"int16_t", decl.Typedef("int16_t"), ir.I16},
	{"uint32_t", decl.Typedef("uint32_t"), ir.U32},
	{"int32_t", decl.Typedef("int32_t"), ir.I32},
	{"uint64_t", decl.Typedef("uint64_t"), ir.U64},
	{"int64_t", decl.Typedef("int64_t"), ir.I64},
	{"record", decl.Record("v8::Object"), ir.ClassType{Name: "Object"}},
	{"pointer", decl.PointerTo(decl.Record("v8::Isolate")), ir.Ptr{Elem: ir.ClassType{Name: "Isolate"}}},
	{"array", decl.ArrayOf(decl.Builtin(decl.TypeInt)), ir.Arr{Elem: ir.Int}},
	{"handle", local("Value"), ir.Ref{Elem: ir.ClassType{Name: "Value"}}},
	{"handle array", decl.ArrayOf(local("Value")), ir.Arr{Elem: ir.Ref{Elem: ir.ClassType{Name: "Value"}}}},
	{"unexposed class", decl.Unexposed("v8::Isolate"), ir.ClassType{Name: "Isolate"}},
}

func TestTypeMapping(t *testing.T) {
	m := newMapper()
	for _, tt := range mappable {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Type(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeMappingIsInjective(t *testing.T) {
	m := newMapper()
	seen := make(map[string]string)
	for _, tt := range mappable {
		got, err := m.Type(tt.in)
		require.NoError(t, err)
		key := got.String()
		if prev, ok := seen[key]; ok {
			t.Errorf("%s and %s both map to %s", prev, tt.name, key)
		}
		seen[key] = tt.name
	}
}

func TestConstDoesNotChangeScalars(t *testing.T) {
	m := newMapper()
	kinds := []decl.TypeKind{
		decl.TypeBool, decl.TypeInt, decl.TypeUInt,
		decl.TypeLong, decl.TypeULong, decl.TypeDouble,
	}
	for _, k := range kinds {
		plain, err := m.Type(decl.Builtin(k))
		require.NoError(t, err)
		qualified, err := m.Type(decl.Const(decl.Builtin(k)))
		require.NoError(t, err)
		assert.Equal(t, plain, qualified, k.String())
	}

	typedef, err := m.Type(decl.Const(decl.Typedef("uint32_t")))
	require.NoError(t, err)
	assert.Equal(t, ir.U32, typedef)
}

func TestTypeMappingFailures(t *testing.T) {
	m := newMapper()
	tests := []struct {
		name string
		in   *decl.TypeExpr
		kind decl.TypeKind
	}{
		{"float", decl.Builtin(decl.TypeFloat), decl.TypeFloat},
		{"long long", decl.Builtin(decl.TypeLongLong), decl.TypeLongLong},
		{"short", decl.Builtin(decl.TypeShort), decl.TypeShort},
		{"enum", decl.Enum("v8::PropertyFilter"), decl.TypeEnum},
		{"size_t", decl.Typedef("size_t"), decl.TypeTypedef},
		{"nested record", decl.Record("v8::internal::Heap"), decl.TypeRecord},
		{"reference", decl.ReferenceTo(decl.Record("v8::Object")), decl.TypeLValueReference},
		{"template", decl.Unexposed("std::vector<int>", decl.Builtin(decl.TypeInt)), decl.TypeUnexposed},
		{"handle to scalar", decl.Unexposed("v8::Local<int>", decl.Builtin(decl.TypeInt)), decl.TypeUnexposed},
		{"pointer to enum", decl.PointerTo(decl.Enum("v8::PropertyFilter")), decl.TypeEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Type(tt.in)
			require.Error(t, err)
			var me *MappingError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.kind, me.Kind)
		})
	}
}

func TestRetTypeMapping(t *testing.T) {
	m := newMapper()
	obj := ir.Ref{Elem: ir.ClassType{Name: "Object"}}
	tests := []struct {
		name string
		in   *decl.TypeExpr
		want ir.RetType
	}{
		{"void", decl.Builtin(decl.TypeVoid), ir.Direct(ir.Void)},
		{"int", decl.Builtin(decl.TypeInt), ir.Direct(ir.Int)},
		{"maybe local", decl.Unexposed("v8::MaybeLocal<v8::Object>", decl.Record("v8::Object")), ir.Maybe(obj)},
		{"local", local("Object"), ir.Maybe(obj)},
		{"maybe bool", decl.Unexposed("v8::Maybe<bool>", decl.Builtin(decl.TypeBool)), ir.Maybe(ir.Bool)},
		{"maybe uint32", decl.Unexposed("v8::Maybe<uint32_t>", decl.Typedef("uint32_t")), ir.Maybe(ir.U32)},
		{"maybe double", decl.Unexposed("v8::Maybe<double>", decl.Builtin(decl.TypeDouble)), ir.Maybe(ir.F64)},
		{"const char pointer", decl.PointerTo(decl.Const(decl.Builtin(decl.TypeCharS))), ir.Direct(ir.Ptr{Elem: ir.ConstChar})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.RetType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRetTypeMappingFailures(t *testing.T) {
	m := newMapper()
	tests := []struct {
		name string
		in   *decl.TypeExpr
	}{
		{"maybe void", decl.Unexposed("v8::Maybe<void>", decl.Builtin(decl.TypeVoid))},
		{"maybe enum", decl.Unexposed("v8::Maybe<v8::PropertyAttribute>", decl.Enum("v8::PropertyAttribute"))},
		{"maybe int8", decl.Unexposed("v8::Maybe<int8_t>", decl.Typedef("int8_t"))},
		{"maybe without argument", decl.Unexposed("v8::Maybe<T>")},
		{"maybe local of scalar", decl.Unexposed("v8::MaybeLocal<int>", decl.Builtin(decl.TypeInt))},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in decl.Type
			if tt.in != nil {
				in = tt.in
			}
			_, err := m.RetType(in)
			assert.Error(t, err)
		})
	}
}

// A declaration survives the round trip when its return type maps: null
// persistent references stand in for empty handles.
func TestRetTypeRoundTrip(t *testing.T) {
	m := newMapper()
	for _, class := range []string{"Object", "String", "Value"} {
		r, err := m.RetType(local(class))
		require.NoError(t, err)
		assert.True(t, r.Maybe)
		name, ok := ir.RefClass(r.Type)
		require.True(t, ok)
		assert.Equal(t, class, name)
	}
}
