package ir

import (
	"fmt"
	"io"
	"strings"
)

// String renders the method as "name(arg: type, ...) -> ret", prefixed with
// "static " for static methods and followed by the mangled symbol in braces
// when it differs from the name.
func (m Method) String() string {
	var b strings.Builder
	if m.IsStatic {
		b.WriteString("static ")
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, a := range m.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", a.Name, a.Type)
	}
	b.WriteString(") -> ")
	b.WriteString(m.RetType.String())
	if m.IsMangled() {
		fmt.Fprintf(&b, " {%s}", m.MangledName)
	}
	return b.String()
}

// WriteTo writes the human-readable rendering of the API: one line per
// class, one indented line per method.
func (a *API) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, c := range a.Classes {
		b.WriteString(c.Name)
		b.WriteByte('\n')
		for _, m := range c.Methods {
			b.WriteString("  ")
			b.WriteString(m.String())
			b.WriteByte('\n')
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (a *API) String() string {
	var b strings.Builder
	a.WriteTo(&b)
	return b.String()
}
