package inspector

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tsjavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// TreeSitter is the default Inspector, grounded on the same
// parse-then-walk shape as a Go source extractor: parse once, recurse the
// tree, dispatch on node.Kind().
type TreeSitter struct {
	language *sitter.Language
}

func NewTreeSitter() *TreeSitter {
	return &TreeSitter{language: sitter.NewLanguage(tsjavascript.Language())}
}

func (t *TreeSitter) Inspect(filename, source string) (Info, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(t.language)

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return Info{}, nil
	}
	defer tree.Close()

	info := Info{JSLanguage: "js"}
	w := &walker{src: src, info: &info, seen: make(map[string]bool)}
	w.walk(tree.RootNode())

	info.JSRequires = dedupe(info.JSRequires)
	info.JSImports = dedupe(info.JSImports)
	info.JSDynamicImports = dedupe(info.JSDynamicImports)
	return info, nil
}

type walker struct {
	src  []byte
	info *Info
	seen map[string]bool
}

func (w *walker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

func (w *walker) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	kind := n.Kind()

	switch kind {
	case "ERROR":
		w.info.JSErrors = append(w.info.JSErrors, "parse error near: "+truncate(w.text(n), 60))
	case "call_expression":
		w.walkCall(n)
	case "import_statement":
		w.walkImportStatement(n)
	case "identifier":
		text := w.text(n)
		if text == "Buffer" {
			w.info.UsesGlobalBuffer = true
		} else if text == "process" {
			w.info.UsesGlobalProcess = true
		}
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) walkCall(n *sitter.Node) {
	if n.ChildCount() == 0 {
		return
	}
	callee := n.Child(0)
	calleeText := w.text(callee)

	var argsNode *sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "arguments" {
			argsNode = n.Child(i)
			break
		}
	}
	if argsNode == nil {
		return
	}
	arg := firstStringLiteral(argsNode, w.src)

	switch {
	case calleeText == "require":
		if arg != "" {
			w.info.JSRequires = append(w.info.JSRequires, arg)
		} else {
			w.info.JSInvalidRequires = append(w.info.JSInvalidRequires, dynamicArgText(argsNode, w.src))
		}
	case callee.Kind() == "import":
		if arg != "" {
			w.info.JSDynamicImports = append(w.info.JSDynamicImports, arg)
		}
	}
}

func (w *walker) walkImportStatement(n *sitter.Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "string" {
			if s := stringLiteralValue(child, w.src); s != "" {
				w.info.JSImports = append(w.info.JSImports, s)
			}
		}
	}
}

func firstStringLiteral(argsNode *sitter.Node, src []byte) string {
	for i := uint(0); i < argsNode.ChildCount(); i++ {
		child := argsNode.Child(i)
		if child.Kind() == "string" {
			return stringLiteralValue(child, src)
		}
	}
	return ""
}

func stringLiteralValue(n *sitter.Node, src []byte) string {
	text := string(src[n.StartByte():n.EndByte()])
	return strings.Trim(text, "'\"`")
}

func dynamicArgText(argsNode *sitter.Node, src []byte) string {
	return string(src[argsNode.StartByte():argsNode.EndByte()])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
