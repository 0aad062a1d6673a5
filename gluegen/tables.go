package gluegen

import "github.com/chazu/v8gen/ir"

// MangleEntry renames a method to Symbol when one of its arguments is
// named UniqueArg. Entries are matched in table order.
type MangleEntry struct {
	Name      string
	UniqueArg string
	Symbol    string
}

// Tables holds every special case the pipeline consults. There is exactly
// one canonical copy (DefaultTables); configuration extends it.
type Tables struct {
	ExcludedClasses map[string]bool
	ExcludedMethods map[string]bool
	Mangle          []MangleEntry
	// Unexposed maps display names the front end cannot classify to the
	// class they denote.
	Unexposed map[string]string
}

// Classes that need hand-written glue: handle and scope machinery, callback
// info objects, and process-level singletons.
var excludedClasses = []string{
	"Local",
	"MaybeLocal",
	"Maybe",
	"Handle",
	"Persistent",
	"PersistentBase",
	"Global",
	"Eternal",
	"NonCopyablePersistentTraits",
	"CopyablePersistentTraits",
	"WeakCallbackInfo",
	"FunctionCallbackInfo",
	"PropertyCallbackInfo",
	"ReturnValue",
	"HandleScope",
	"EscapableHandleScope",
	"SealHandleScope",
	"TryCatch",
	"Locker",
	"Unlocker",
	"MicrotasksScope",
	"Platform",
	"Extension",
	"ExtensionConfiguration",
	"ResourceConstraints",
	"StartupData",
	"SnapshotCreator",
	"ScriptCompiler",
	"External",
	"V8",
}

var excludedMethods = []string{
	"Cast",
	"CheckCast",
	"Enter",
	"Exit",
	"Dispose",
	"Externalize",
	"GetContents",
	"SetAlignedPointerInInternalField",
	"GetAlignedPointerFromInternalField",
	"SetAlignedPointerInEmbedderData",
	"GetAlignedPointerFromEmbedderData",
	"GetExternalStringResource",
	"GetExternalStringResourceBase",
	"GetExternalOneByteStringResource",
	"SetAccessor",
	"SetNativeDataProperty",
	"SetLazyDataProperty",
	"SetHandler",
	"SetCallHandler",
	"SetAccessCheckCallback",
}

// Order matters: the first entry whose name and unique argument both match
// wins.
var mangleTable = []MangleEntry{
	{"Set", "key", "Set_Key"},
	{"Set", "index", "Set_Index"},
	{"Get", "key", "Get_Key"},
	{"Get", "index", "Get_Index"},
	{"Has", "key", "Has_Key"},
	{"Has", "index", "Has_Index"},
	{"Delete", "key", "Delete_Key"},
	{"Delete", "index", "Delete_Index"},
	{"CreateDataProperty", "key", "CreateDataProperty_Key"},
	{"CreateDataProperty", "index", "CreateDataProperty_Index"},
	{"HasOwnProperty", "key", "HasOwnProperty_Key"},
	{"HasOwnProperty", "index", "HasOwnProperty_Index"},
	{"HasRealIndexedProperty", "index", "HasRealIndexedProperty_Index"},
	{"GetOwnPropertyNames", "filter", "GetOwnPropertyNames_Filtered"},
	{"GetPropertyNames", "mode", "GetPropertyNames_Filtered"},
	{"New", "elements", "New_FromElements"},
	{"New", "prototype_or_null", "New_WithProperties"},
	{"New", "length", "New_WithLength"},
}

var unexposedClasses = map[string]string{
	"Isolate":        "Isolate",
	"ObjectTemplate": "ObjectTemplate",
	"Value":          "Value",
}

var fixedWidthTypedefs = map[string]ir.Builtin{
	"int8_t":   ir.I8,
	"int16_t":  ir.I16,
	"int32_t":  ir.I32,
	"int64_t":  ir.I64,
	"uint8_t":  ir.U8,
	"uint16_t": ir.U16,
	"uint32_t": ir.U32,
	"uint64_t": ir.U64,
}

// DefaultTables returns a fresh copy of the canonical tables.
func DefaultTables() *Tables {
	t := &Tables{
		ExcludedClasses: make(map[string]bool, len(excludedClasses)),
		ExcludedMethods: make(map[string]bool, len(excludedMethods)),
		Mangle:          append([]MangleEntry(nil), mangleTable...),
		Unexposed:       make(map[string]string, len(unexposedClasses)),
	}
	for _, c := range excludedClasses {
		t.ExcludedClasses[c] = true
	}
	for _, m := range excludedMethods {
		t.ExcludedMethods[m] = true
	}
	for k, v := range unexposedClasses {
		t.Unexposed[k] = v
	}
	return t
}

// Extend adds exclusions and appends mangle entries after the existing
// ones, so canonical entries keep precedence.
func (t *Tables) Extend(classes, methods []string, mangle []MangleEntry) {
	for _, c := range classes {
		t.ExcludedClasses[c] = true
	}
	for _, m := range methods {
		t.ExcludedMethods[m] = true
	}
	t.Mangle = append(t.Mangle, mangle...)
}

// IsRecognized reports whether name is a class the generators may refer to
// even when it is not modeled.
func (t *Tables) IsRecognized(name string) bool {
	for _, v := range t.Unexposed {
		if v == name {
			return true
		}
	}
	return false
}
