package style

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseDeclarations turns an inline declaration list such as
// "background-color: #fff; padding: 4px 8px" into a style map keyed by
// camelCase property names. Malformed declarations are skipped.
func ParseDeclarations(text string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(text) == "" {
		return out
	}
	parser := css.NewParser(parse.NewInput(bytes.NewReader([]byte(text))), true)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return out
		case css.DeclarationGrammar:
			value := joinTokens(parser.Values())
			if value == "" {
				continue
			}
			out[CamelCase(string(data))] = value
		}
	}
}

func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// CamelCase converts a CSS property name to the key used in style maps.
func CamelCase(property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	parts := strings.Split(property, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
