package cpp

import (
	"bytes"
	"regexp"
	"strings"
)

// Macros configures how engine macros are rewritten before parsing. The
// parser does not expand macros, so annotations that sit between keywords
// and names would otherwise derail it.
type Macros struct {
	// Strip are object-like macros that are blanked (e.g., V8_EXPORT).
	Strip []string
	// StripCalls are function-like macros whose whole invocation is
	// blanked (e.g., V8_DEPRECATE_SOON("...")).
	StripCalls []string
	// Deprecations are function-like macros replaced by [[deprecated]].
	Deprecations []string
}

// DefaultMacros covers the annotations used by the V8 public headers.
func DefaultMacros() Macros {
	return Macros{
		Strip: []string{
			"V8_EXPORT",
			"V8_INLINE",
			"V8_WARN_UNUSED_RESULT",
			"V8_NODISCARD",
			"V8_TRIVIAL_ABI",
			"V8_NOINLINE",
			"V8_DEPRECATE_SOON_INLINE",
		},
		StripCalls:   []string{"V8_DEPRECATE_SOON", "V8_ENUM_DEPRECATE_SOON"},
		Deprecations: []string{"V8_DEPRECATED", "V8_ENUM_DEPRECATED"},
	}
}

const deprecatedAttr = "[[deprecated]]"

// preprocess applies m to src. Replacements are padded with spaces where
// possible so that line and column positions survive.
func preprocess(src []byte, m Macros) []byte {
	out := src
	if len(m.Deprecations) > 0 {
		out = replaceCalls(out, m.Deprecations, deprecatedAttr)
	}
	if len(m.StripCalls) > 0 {
		out = replaceCalls(out, m.StripCalls, "")
	}
	if len(m.Strip) > 0 {
		re := regexp.MustCompile(`\b(` + alternation(m.Strip) + `)\b`)
		out = re.ReplaceAllFunc(out, func(match []byte) []byte {
			return bytes.Repeat([]byte{' '}, len(match))
		})
	}
	return out
}

func alternation(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return strings.Join(quoted, "|")
}

// replaceCalls replaces every invocation NAME(...) of the given macros with
// repl. Parentheses inside string literals do not count.
func replaceCalls(src []byte, names []string, repl string) []byte {
	re := regexp.MustCompile(`\b(` + alternation(names) + `)\s*\(`)
	var out bytes.Buffer
	pos := 0
	for {
		loc := re.FindIndex(src[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		end := matchParen(src, pos+loc[1]-1)
		if end < 0 {
			break
		}
		out.Write(src[pos:start])
		out.WriteString(repl)
		if pad := (end - start) - len(repl); pad > 0 {
			out.Write(bytes.Repeat([]byte{' '}, pad))
		}
		pos = end
	}
	out.Write(src[pos:])
	return out.Bytes()
}

// matchParen returns the offset just past the parenthesis closing the one
// at open, or -1.
func matchParen(src []byte, open int) int {
	depth := 0
	inString := false
	for i := open; i < len(src); i++ {
		c := src[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
