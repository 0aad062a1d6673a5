package gluegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/chazu/v8gen/ir"
)

func objectAPI(t *testing.T) *ir.API {
	t.Helper()
	return build(t, objectTree()).API
}

func TestGenerateHeader(t *testing.T) {
	h := GenerateHeader(objectAPI(t), EmitOptions{})

	assert.True(t, strings.HasPrefix(h, "// Code generated by v8gen. DO NOT EDIT.\n"))
	assert.Contains(t, h, "#ifndef V8_GLUE_H_\n#define V8_GLUE_H_\n")
	assert.Contains(t, h, `#include "v8_types.h"`)
	assert.Contains(t, h, "typedef struct v8_Env {\n  void* isolate;\n  void* exception;\n  void* message;\n} v8_Env;")
	assert.Contains(t, h, "typedef struct v8_MaybeBool {\n  bool is_set;\n  bool value;\n} v8_MaybeBool;")
	assert.Contains(t, h, "typedef struct v8_MaybeF64 {\n  bool is_set;\n  double value;\n} v8_MaybeF64;")

	assert.Contains(t, h, "v8_Object_ref v8_Object__clone_ref(v8_Env* env, v8_Object_ref self);")
	assert.Contains(t, h, "void v8_Object__destroy_ref(v8_Object_ref self);")
	assert.Contains(t, h, "void v8_Object__destroy_ptr(v8_Object_ptr self);")

	assert.Contains(t, h, "v8_MaybeBool v8_Object_Set_Index(v8_Env* env, v8_Object_ref self, v8_Context_ref context, uint32_t index, v8_Value_ref value);")
	assert.Contains(t, h, "v8_MaybeBool v8_Object_Set_Key(v8_Env* env, v8_Object_ref self, v8_Context_ref context, v8_Value_ref key, v8_Value_ref value);")
	assert.Contains(t, h, "v8_Object_ref v8_Object_New(v8_Env* env, v8_Isolate_ptr isolate);")
	assert.Contains(t, h, "int v8_Object_GetIdentityHash(v8_Env* env, v8_Object_ref self);")

	// ten primitive maybe structs, one per family member
	assert.Equal(t, len(ir.MaybeFamily), strings.Count(h, "  bool is_set;"))
}

func TestGenerateTypes(t *testing.T) {
	ty := GenerateTypes(objectAPI(t), EmitOptions{})

	assert.Contains(t, ty, "#ifndef V8_TYPES_H_")
	assert.Contains(t, ty, "#ifdef __cplusplus\n\n#include \"v8.h\"\n")
	assert.Contains(t, ty, "typedef v8::Object* v8_Object_ptr;")
	assert.Contains(t, ty, "typedef v8::Persistent<v8::Object>* v8_Object_ref;")
	assert.Contains(t, ty, "typedef void* v8_Object_ref;")
	// referenced but not modeled
	assert.Contains(t, ty, "typedef v8::Isolate* v8_Isolate_ptr;")
	assert.Contains(t, ty, "typedef void* v8_Isolate_ptr;")
}

func TestGenerateImpl(t *testing.T) {
	impl := GenerateImpl(objectAPI(t), EmitOptions{})

	assert.Contains(t, impl, `#include "v8_glue.h"`)
	assert.Contains(t, impl, "v8_MaybeBool maybe_bool(v8::Maybe<bool> maybe) {")
	assert.Contains(t, impl, "v8_MaybeU64 maybe_u64(v8::Maybe<uint64_t> maybe) {")

	setIndex := methodBody(t, impl, "v8_MaybeBool v8_Object_Set_Index(")
	assert.Contains(t, setIndex, "v8::Local<v8::Object> self_ = local_from_ref(isolate_, self);")
	assert.Contains(t, setIndex, "v8::Local<v8::Context> arg_context = local_from_ref(isolate_, context);")
	assert.Contains(t, setIndex, "v8::Context::Scope context_scope_(arg_context);")
	assert.Contains(t, setIndex, "auto result_ = self_->Set(arg_context, index, arg_value);")
	assert.Contains(t, setIndex, "return maybe_bool(result_);")

	newFn := methodBody(t, impl, "v8_Object_ref v8_Object_New(")
	assert.Contains(t, newFn, "auto result_ = v8::Object::New(isolate);")
	assert.Contains(t, newFn, "return ref_from_maybe_local(isolate_, result_);")
	assert.NotContains(t, newFn, "self_")
	assert.NotContains(t, newFn, "context_scope_")

	hash := methodBody(t, impl, "int v8_Object_GetIdentityHash(")
	assert.Contains(t, hash, "return result_;")

	assert.Contains(t, impl, "return new v8::Persistent<v8::Object>(isolate_, *self);")
}

func TestGenerateImplVoidStillChecksException(t *testing.T) {
	api := &ir.API{Namespace: "v8", Classes: []ir.Class{{
		Name: "Value",
		Methods: []ir.Method{
			{Name: "Clear", MangledName: "Clear", RetType: ir.Direct(ir.Void)},
		},
	}}}

	body := methodBody(t, GenerateImpl(api, EmitOptions{}), "void v8_Value_Clear(")
	assert.Contains(t, body, "  self_->Clear();\n  if (try_catch_.HasCaught()) {\n    capture_exception(env, isolate_, try_catch_);\n  }\n}")
	assert.NotContains(t, body, "result_")
	assert.NotContains(t, body, "return")
}

func TestArgumentLocalsKeepClearOfScopeLocals(t *testing.T) {
	api := &ir.API{Namespace: "v8", Classes: []ir.Class{{
		Name: "Value",
		Methods: []ir.Method{{
			Name:        "Run",
			MangledName: "Run",
			Args: []ir.Arg{
				{Name: "result", Type: ir.Ref{Elem: ir.ClassType{Name: "Value"}}},
				{Name: "isolate", Type: ir.Ref{Elem: ir.ClassType{Name: "Value"}}},
			},
			RetType: ir.Direct(ir.Bool),
		}},
	}}}

	body := methodBody(t, GenerateImpl(api, EmitOptions{}), "bool v8_Value_Run(")
	assert.Contains(t, body, "v8::Local<v8::Value> arg_result = local_from_ref(isolate_, result);")
	assert.Contains(t, body, "v8::Local<v8::Value> arg_isolate = local_from_ref(isolate_, isolate);")
	assert.Contains(t, body, "auto result_ = self_->Run(arg_result, arg_isolate);")
	assert.Equal(t, 1, strings.Count(body, "isolate_ ="))
	assert.Equal(t, 1, strings.Count(body, "result_ ="))
}

func TestHandleArrayWithoutCountIsACompileError(t *testing.T) {
	api := &ir.API{Namespace: "v8", Classes: []ir.Class{{
		Name: "Function",
		Methods: []ir.Method{{
			Name:        "Call",
			MangledName: "Call",
			Args: []ir.Arg{
				{Name: "argv", Type: ir.Arr{Elem: ir.Ref{Elem: ir.ClassType{Name: "Value"}}}},
			},
			RetType: ir.Direct(ir.Void),
		}},
	}}}

	var impl string
	require.NotPanics(t, func() { impl = GenerateImpl(api, EmitOptions{}) })
	body := methodBody(t, impl, "void v8_Function_Call(")
	assert.Contains(t, body, "#error \"v8gen: handle array argv has no count argument\"\n")
	assert.Contains(t, body, "self_->Call(argv);")
}

func TestPrefixOverride(t *testing.T) {
	a := Generate(objectAPI(t), EmitOptions{Prefix: "js"})

	assert.Equal(t, "js_types.h", a.Types.Name)
	assert.Equal(t, "js_glue.h", a.Header.Name)
	assert.Equal(t, "js_glue.cc", a.Impl.Name)
	assert.Contains(t, string(a.Header.Content), "js_MaybeBool js_Object_Set_Index(js_Env* env, js_Object_ref self,")
	assert.Contains(t, string(a.Types.Content), "typedef v8::Persistent<v8::Object>* js_Object_ref;")
	assert.Contains(t, string(a.Header.Content), "#ifndef JS_GLUE_H_")
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := Generate(objectAPI(t), EmitOptions{}).Archive()
	second := Generate(objectAPI(t), EmitOptions{}).Archive()
	assert.Equal(t, string(first), string(second))
}

func TestArchive(t *testing.T) {
	a := Generate(objectAPI(t), EmitOptions{})
	ar := txtar.Parse(a.Archive())

	require.Len(t, ar.Files, 3)
	assert.Equal(t, "v8_types.h", ar.Files[0].Name)
	assert.Equal(t, "v8_glue.h", ar.Files[1].Name)
	assert.Equal(t, "v8_glue.cc", ar.Files[2].Name)
	assert.Equal(t, string(a.Impl.Content), string(ar.Files[2].Data))

	golden := filepath.Join("testdata", "object_glue.txtar")
	updateGolden(t, golden, string(a.Archive()))
	compareGolden(t, golden, string(a.Archive()))
}

func TestWriteOnlyChangedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := Generate(objectAPI(t), EmitOptions{})

	written, err := a.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"v8_types.h", "v8_glue.h", "v8_glue.cc"}, written)

	written, err = a.Write(dir)
	require.NoError(t, err)
	assert.Empty(t, written)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "v8_glue.h"), []byte("stale"), 0o644))
	written, err = a.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"v8_glue.h"}, written)

	data, err := os.ReadFile(filepath.Join(dir, "v8_glue.h"))
	require.NoError(t, err)
	assert.Equal(t, string(a.Header.Content), string(data))
}

func TestModelEncoding(t *testing.T) {
	api := objectAPI(t)

	first, err := EncodeModel(api, "")
	require.NoError(t, err)
	second, err := EncodeModel(api, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rec, err := DecodeModel(first)
	require.NoError(t, err)
	assert.Equal(t, "v8", rec.Namespace)
	assert.Equal(t, "v8", rec.Prefix)
	require.Len(t, rec.Classes, 3)

	obj := rec.Classes[2]
	assert.Equal(t, "Object", obj.Name)
	assert.Equal(t, "v8_Object_Set_Index", obj.Methods[1].Symbol)
	assert.Equal(t, "Maybe<bool>", obj.Methods[1].Returns)
	assert.Equal(t, ArgRecord{Name: "index", Type: "u32"}, obj.Methods[1].Args[1])
	assert.True(t, obj.Methods[2].Static)

	_, err = DecodeModel([]byte{0xff})
	assert.Error(t, err)
}

// methodBody returns the function definition starting at signature.
func methodBody(t *testing.T, impl, signature string) string {
	t.Helper()
	start := strings.Index(impl, signature)
	require.GreaterOrEqual(t, start, 0, "missing %s", signature)
	end := strings.Index(impl[start:], "\n}\n")
	require.GreaterOrEqual(t, end, 0)
	return impl[start : start+end+2]
}

func updateGolden(t *testing.T, path, content string) {
	t.Helper()
	if os.Getenv("UPDATE_GOLDEN") == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating testdata dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("updating golden file: %v", err)
	}
}

func compareGolden(t *testing.T, path, got string) {
	t.Helper()
	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("Golden file %s does not exist. Run with UPDATE_GOLDEN=1 to create.", path)
		return
	}
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if string(expected) != got {
		t.Errorf("output differs from golden file %s.\nRun with UPDATE_GOLDEN=1 to update.", path)
	}
}
