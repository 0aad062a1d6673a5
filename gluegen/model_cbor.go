package gluegen

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/v8gen/ir"
)

// ModelRecord is the serialized form of an API, consumed by build tooling
// that needs to know which symbols a run produced without parsing C.
// Types are stored in their display rendering.
type ModelRecord struct {
	Namespace string        `cbor:"namespace"`
	Prefix    string        `cbor:"prefix"`
	Classes   []ClassRecord `cbor:"classes"`
}

// ClassRecord is one serialized class.
type ClassRecord struct {
	Name    string         `cbor:"name"`
	Methods []MethodRecord `cbor:"methods"`
}

// MethodRecord is one serialized method.
type MethodRecord struct {
	Static  bool        `cbor:"static,omitempty"`
	Name    string      `cbor:"name"`
	Symbol  string      `cbor:"symbol"`
	Args    []ArgRecord `cbor:"args,omitempty"`
	Returns string      `cbor:"returns"`
}

// ArgRecord is one serialized argument.
type ArgRecord struct {
	Name string `cbor:"name"`
	Type string `cbor:"type"`
}

// EncodeModel serializes api with CBOR core deterministic encoding, so
// identical models always produce identical bytes.
func EncodeModel(api *ir.API, prefix string) ([]byte, error) {
	if prefix == "" {
		prefix = api.Namespace
	}
	rec := ModelRecord{Namespace: api.Namespace, Prefix: prefix}
	for _, c := range api.Classes {
		cr := ClassRecord{Name: c.Name}
		for _, m := range c.Methods {
			mr := MethodRecord{
				Static:  m.IsStatic,
				Name:    m.Name,
				Symbol:  FunctionName(prefix, c.Name, m.MangledName),
				Returns: m.RetType.String(),
			}
			for _, a := range m.Args {
				mr.Args = append(mr.Args, ArgRecord{Name: a.Name, Type: a.Type.String()})
			}
			cr.Methods = append(cr.Methods, mr)
		}
		rec.Classes = append(rec.Classes, cr)
	}

	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	data, err := em.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return data, nil
}

// DecodeModel reads a model written by EncodeModel.
func DecodeModel(data []byte) (*ModelRecord, error) {
	var rec ModelRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	return &rec, nil
}
