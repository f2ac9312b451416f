package collect

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/typecollect/pkg/domain"
	"github.com/specvital/typecollect/pkg/parser"
)

// Declaration keywords recognized by the classifier.
const (
	funcDescribe = "describe"
	funcSuite    = "suite"
	funcIt       = "it"
	funcTest     = "test"
)

// chainProperties parameterize or guard a declaration instead of declaring
// one; the real declaration is the enclosing chained call, visited
// separately.
var chainProperties = map[string]bool{
	"each":   true,
	"for":    true,
	"runIf":  true,
	"skipIf": true,
}

// generatedNamespacePrefix marks identifiers synthesized by the module
// transform for import namespaces (__vite_ssr_import_0__ and friends).
// Callees reached through any other generated convention classify as
// non-declarations.
const generatedNamespacePrefix = "__vite_ssr_"

// Classify decides whether a call expression declares a test or suite and
// produces its CallSite. Returns false for every other callee shape; it
// never fails.
func Classify(call *sitter.Node, source []byte) (domain.CallSite, bool) {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return domain.CallSite{}, false
	}

	var kind domain.NodeKind
	switch baseCalleeName(callee, source) {
	case funcDescribe, funcSuite:
		kind = domain.KindSuite
	case funcIt, funcTest:
		kind = domain.KindTest
	default:
		return domain.CallSite{}, false
	}

	// The declared mode comes from the directly accessed property: absent
	// or equal to the base name means run. Chain properties are not modes,
	// and unknown ones (concurrent, fails, ...) do not change the mode.
	mode := domain.ModeRun
	if callee.Type() == "member_expression" {
		if prop := callee.ChildByFieldName("property"); prop != nil {
			switch name := parser.GetNodeText(prop, source); {
			case chainProperties[name]:
				return domain.CallSite{}, false
			case name == string(domain.ModeSkip):
				mode = domain.ModeSkip
			case name == string(domain.ModeOnly):
				mode = domain.ModeOnly
			case name == string(domain.ModeTodo):
				mode = domain.ModeTodo
			}
		}
	}

	args := call.ChildByFieldName("arguments")
	if args == nil || args.Type() != "arguments" {
		return domain.CallSite{}, false
	}

	nameArg := firstArgument(args)
	if nameArg == nil {
		// A declaration without a name argument is invisible to collection.
		return domain.CallSite{}, false
	}

	// For chained declarations the name starts after the modifier call, so
	// the site range must not swallow the modifier's own span.
	start := call.StartByte()
	switch {
	case isTaggedTemplate(callee):
		start = callee.EndByte() + 1
	case callee.Type() == "call_expression":
		start = callee.EndByte()
	}

	return domain.CallSite{
		Start: start,
		End:   call.EndByte(),
		Name:  ResolveName(nameArg, source),
		Kind:  kind,
		Mode:  mode,
	}, true
}

// CollectCallSites classifies every call expression in the tree, top-down.
// Classification is stateless per node.
func CollectCallSites(root *sitter.Node, source []byte) []domain.CallSite {
	var sites []domain.CallSite
	parser.WalkTree(root, func(n *sitter.Node) bool {
		if n.Type() == "call_expression" {
			if site, ok := Classify(n, source); ok {
				sites = append(sites, site)
			}
		}
		return true
	})
	return sites
}

// baseCalleeName resolves the identifier a callee ultimately dispatches on:
// chained calls and tagged templates resolve through their callee/tag,
// member expressions through their object, with one extra unwrap when the
// object is a generated module-namespace reference.
func baseCalleeName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "identifier", "property_identifier":
		return parser.GetNodeText(node, source)
	case "call_expression":
		// Covers chained modifiers (test.each([...])) and tagged templates,
		// whose tag is the function field.
		if fn := node.ChildByFieldName("function"); fn != nil {
			return baseCalleeName(fn, source)
		}
		return ""
	case "member_expression":
		obj := node.ChildByFieldName("object")
		if obj == nil {
			return ""
		}
		if obj.Type() == "identifier" && strings.HasPrefix(parser.GetNodeText(obj, source), generatedNamespacePrefix) {
			if prop := node.ChildByFieldName("property"); prop != nil {
				return baseCalleeName(prop, source)
			}
			return ""
		}
		return baseCalleeName(obj, source)
	default:
		return ""
	}
}

// isTaggedTemplate reports whether the node is a tagged-template call: the
// grammar parses f`...` as a call_expression whose arguments node is the
// template string itself.
func isTaggedTemplate(node *sitter.Node) bool {
	if node.Type() != "call_expression" {
		return false
	}
	args := node.ChildByFieldName("arguments")
	return args != nil && args.Type() == "template_string"
}

// firstArgument returns the first real argument, skipping comments.
func firstArgument(args *sitter.Node) *sitter.Node {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if child := args.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}
