package build

import (
	"strings"
	"unicode"
)

var commonInitialisms = map[string]bool{
	"API":   true,
	"ASCII": true,
	"CPU":   true,
	"CSS":   true,
	"DNS":   true,
	"EOF":   true,
	"GUID":  true,
	"HTML":  true,
	"HTTP":  true,
	"HTTPS": true,
	"ID":    true,
	"IP":    true,
	"JSON":  true,
	"LHS":   true,
	"QPS":   true,
	"RAM":   true,
	"RHS":   true,
	"RPC":   true,
	"SLA":   true,
	"SMTP":  true,
	"SQL":   true,
	"SSH":   true,
	"TCP":   true,
	"TLS":   true,
	"TTL":   true,
	"UDP":   true,
	"UI":    true,
	"UID":   true,
	"UUID":  true,
	"URI":   true,
	"URL":   true,
	"UTF8":  true,
	"VM":    true,
	"XML":   true,
	"XMPP":  true,
	"XSRF":  true,
	"XSS":   true,
}

func PascalCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

func CamelCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for i, word := range words {
		if i == 0 {
			result.WriteString(strings.ToLower(word))
			continue
		}
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' || r == '/' {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				if current.Len() > 0 {
					words = append(words, current.String())
					current.Reset()
				}
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ModelName turns a schema name into a valid exported identifier. Names
// that would start with a digit get a prefix rather than being dropped.
func ModelName(s string) string {
	name := PascalCase(s)
	if name == "" {
		return "Model"
	}
	if unicode.IsDigit(rune(name[0])) {
		return "Model" + name
	}
	return name
}

// OperationName derives a method name from an operationId, or from the
// method and path when the document declares none ("GET /pets/{id}" ->
// "GetPetsID").
func OperationName(id, method, path string) string {
	if id != "" {
		return PascalCase(id)
	}
	var parts []string
	parts = append(parts, strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		seg = strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return PascalCase(strings.Join(parts, "_"))
}
