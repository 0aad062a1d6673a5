package gluegen

import (
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/v8gen/decl"
)

var log = commonlog.GetLogger("v8gen.gluegen")

// rawClass and rawMethod are the extractor's output. They still hold
// declaration-tree types and must not outlive Build.
type rawClass struct {
	name    string
	methods []rawMethod
}

type rawMethod struct {
	name     string
	display  string
	isStatic bool
	args     []rawArg
	ret      decl.Type
}

type rawArg struct {
	name string
	typ  decl.Type
}

// extractClasses walks the root's target namespaces and returns every
// eligible class in declaration order.
func (b *builder) extractClasses(root decl.Cursor) []rawClass {
	var classes []rawClass
	seen := make(map[string]bool)

	for _, ns := range root.Children() {
		if ns.Kind() != decl.KindNamespace || ns.Name() != b.namespace {
			continue
		}

		for _, c := range ns.Children() {
			if c.Kind() != decl.KindClass {
				continue
			}
			name := c.Name()
			if name == "" || b.tables.ExcludedClasses[name] {
				continue
			}
			members := c.Children()
			if len(members) == 0 {
				// forward declaration
				continue
			}
			if seen[name] {
				b.skip(Skipped{Class: name, Decl: c.DisplayName(), Kind: c.Kind().String(), Reason: "duplicate class definition"})
				continue
			}
			seen[name] = true

			classes = append(classes, rawClass{
				name:    name,
				methods: b.extractMethods(name, members),
			})
		}
	}

	return classes
}

func (b *builder) extractMethods(class string, members []decl.Cursor) []rawMethod {
	var methods []rawMethod

	for _, m := range members {
		if !b.eligible(class, m) {
			continue
		}

		name := m.Name()
		if name == "" {
			b.skip(Skipped{Class: class, Decl: m.DisplayName(), Kind: m.Kind().String(), Reason: "method has no name"})
			continue
		}

		args, ok := b.extractArgs(class, m)
		if !ok {
			continue
		}

		methods = append(methods, rawMethod{
			name:     name,
			display:  m.DisplayName(),
			isStatic: m.IsStatic(),
			args:     args,
			ret:      m.ResultType(),
		})
	}

	return methods
}

// eligible applies the selection rules that drop a member without it being
// an error: wrong kind, unavailable, non-public, operators and excluded
// names.
func (b *builder) eligible(class string, m decl.Cursor) bool {
	if m.Kind() != decl.KindMethod {
		return false
	}
	name := m.Name()
	switch {
	case m.Availability() != decl.Available:
		log.Debug("skipping unavailable method", "class", class, "method", m.DisplayName())
		return false
	case m.Access() != decl.AccessPublic:
		return false
	case strings.HasPrefix(name, "operator"):
		log.Debug("skipping operator", "class", class, "method", m.DisplayName())
		return false
	case b.tables.ExcludedMethods[name]:
		log.Debug("skipping excluded method", "class", class, "method", m.DisplayName())
		return false
	}
	return true
}

// extractArgs copies out the method's arguments. Any unnamed argument drops
// the whole method.
func (b *builder) extractArgs(class string, m decl.Cursor) ([]rawArg, bool) {
	params := m.Args()
	args := make([]rawArg, 0, len(params))
	for i, p := range params {
		name := p.Name()
		if name == "" {
			b.skip(Skipped{
				Class:  class,
				Method: m.Name(),
				Decl:   m.DisplayName(),
				Kind:   m.Kind().String(),
				Reason: "argument " + strconv.Itoa(i) + " has no name",
			})
			return nil, false
		}
		args = append(args, rawArg{name: name, typ: p.Type()})
	}
	return args, true
}
