package manifest

// IsCIdentifier reports whether s can start a C symbol.
func IsCIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// reservedPrefixes lists keywords that cannot serve as a symbol prefix.
var reservedPrefixes = map[string]bool{
	"auto":      true,
	"bool":      true,
	"break":     true,
	"case":      true,
	"char":      true,
	"class":     true,
	"const":     true,
	"default":   true,
	"delete":    true,
	"do":        true,
	"double":    true,
	"else":      true,
	"enum":      true,
	"extern":    true,
	"float":     true,
	"for":       true,
	"if":        true,
	"int":       true,
	"long":      true,
	"namespace": true,
	"new":       true,
	"return":    true,
	"short":     true,
	"signed":    true,
	"static":    true,
	"struct":    true,
	"switch":    true,
	"template":  true,
	"typedef":   true,
	"union":     true,
	"unsigned":  true,
	"void":      true,
	"while":     true,
}

// IsReservedPrefix reports whether name is a C or C++ keyword.
func IsReservedPrefix(name string) bool {
	return reservedPrefixes[name]
}
