package collect

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/typecollect/pkg/parser"
)

// ResolveName renders a declaration's first argument as a display name.
// String literals are unquoted; template literals are reconstructed with
// their interpolations kept as source text; anything whose value cannot be
// known statically (identifiers, expressions) is rendered verbatim.
func ResolveName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "string":
		return unquote(parser.GetNodeText(node, source))
	case "template_string":
		return resolveTemplate(node, source)
	default:
		return parser.GetNodeText(node, source)
	}
}

// resolveTemplate interleaves a template literal's raw quasi text with its
// substitutions. A substitution holding a nested template literal recurses
// and renders as ${`...`}; every other substitution is kept as its verbatim
// ${...} source. Interpolated values are deliberately never evaluated.
func resolveTemplate(node *sitter.Node, source []byte) string {
	start := int(node.StartByte()) + 1 // past the opening backtick
	end := int(node.EndByte()) - 1
	if start > end || end > len(source) {
		return ""
	}

	var b strings.Builder
	pos := start

	for i := 0; i < int(node.NamedChildCount()); i++ {
		sub := node.NamedChild(i)
		if sub.Type() != "template_substitution" {
			continue
		}

		b.Write(source[pos:sub.StartByte()])

		if expr := sub.NamedChild(0); expr != nil && expr.Type() == "template_string" {
			b.WriteString("${`")
			b.WriteString(resolveTemplate(expr, source))
			b.WriteString("`}")
		} else {
			b.Write(source[sub.StartByte():sub.EndByte()])
		}

		pos = int(sub.EndByte())
	}

	if pos < end {
		b.Write(source[pos:end])
	}

	return b.String()
}

func unquote(text string) string {
	if len(text) < 2 {
		return text
	}

	if text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}

	// Go's strconv.Unquote only handles double-quoted strings, so
	// single-quoted JavaScript strings are converted first: unescape \',
	// escape bare double quotes, then parse as a double-quoted string.
	if text[0] == '\'' && text[len(text)-1] == '\'' {
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		escaped := strings.ReplaceAll(inner, `"`, `\"`)
		if s, err := strconv.Unquote(`"` + escaped + `"`); err == nil {
			return s
		}
		return text
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}

	return text
}
