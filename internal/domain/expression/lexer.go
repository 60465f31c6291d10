package expression

import "strings"

// unwrap strips ${ } or #{ } when s is exactly one expression.
func unwrap(s string) (string, bool) {
	if len(s) < 3 || (s[0] != '$' && s[0] != '#') || s[1] != '{' || s[len(s)-1] != '}' {
		return "", false
	}
	end := closingBrace(s, 2)
	if end != len(s)-1 {
		return "", false
	}
	return s[2:end], true
}

// closingBrace returns the index of the brace closing the expression opened
// before start, skipping string literals. -1 when unbalanced.
func closingBrace(s string, start int) int {
	depth := 1
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func hasDelimiter(s string) bool {
	return strings.Contains(s, "${") || strings.Contains(s, "#{")
}

var wordOperators = map[string]string{
	"eq":  "==",
	"ne":  "!=",
	"lt":  "<",
	"gt":  ">",
	"le":  "<=",
	"ge":  ">=",
	"div": "/",
	"mod": "%",
}

// normalizeOperators rewrites JUEL word operators to symbols outside string
// literals and reports whether the 'empty' operator occurs.
func normalizeOperators(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	hasEmpty := false
	var quote byte

	for i := 0; i < len(s); {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			b.WriteByte(c)
			i++
			continue
		}
		if isIdentStart(c) {
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			word := s[i:j]
			afterDot := i > 0 && s[i-1] == '.'
			switch {
			case afterDot:
				b.WriteString(word)
			case word == "empty":
				hasEmpty = true
				b.WriteString(word)
			default:
				if op, ok := wordOperators[word]; ok {
					b.WriteString(op)
				} else {
					b.WriteString(word)
				}
			}
			i = j
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), hasEmpty
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// IsIdentifier reports whether s is a plain identifier.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
