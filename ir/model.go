// Package ir is the portable model of an engine API: classes, methods,
// arguments and the closed set of types the glue generators understand.
package ir

// API is the in-memory representation of every class the generators emit.
// It is built once per run and never mutated afterwards.
type API struct {
	Namespace string // target namespace the classes were taken from (e.g., "v8")
	Classes   []Class
}

// Class is one eligible class declaration, in source order.
type Class struct {
	Name    string
	Methods []Method
}

// Method is a public, available, mappable member function.
type Method struct {
	IsStatic    bool
	Name        string
	MangledName string // external symbol suffix; equals Name unless mangled
	Args        []Arg
	RetType     RetType
}

// Arg is a named method argument.
type Arg struct {
	Name string
	Type Type
}

// Class returns the class with the given name, or nil.
func (a *API) Class(name string) *Class {
	for i := range a.Classes {
		if a.Classes[i].Name == name {
			return &a.Classes[i]
		}
	}
	return nil
}

// ClassNames returns the modeled class names in order.
func (a *API) ClassNames() []string {
	names := make([]string, len(a.Classes))
	for i, c := range a.Classes {
		names[i] = c.Name
	}
	return names
}

// Method returns the first method with the given mangled name, or nil.
func (c *Class) Method(mangled string) *Method {
	for i := range c.Methods {
		if c.Methods[i].MangledName == mangled {
			return &c.Methods[i]
		}
	}
	return nil
}

// IsMangled reports whether the external symbol differs from the name.
func (m *Method) IsMangled() bool {
	return m.MangledName != m.Name
}
