package circuit

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// label renders the node the way a `--trace` dump needs: kind plus the
// payload that distinguishes it.
func (n *Node) label() string {
	switch n.Kind {
	case KindNum:
		return fmt.Sprintf("NUM %d", n.Value)
	case KindVar:
		return fmt.Sprintf("VAR x[%d]", n.VarIndex)
	case KindUnary:
		return fmt.Sprintf("UNARY %c", n.Op)
	case KindBinary:
		return fmt.Sprintf("BINARY %c", n.Op)
	default:
		return "?"
	}
}

func addSubtree(printer tp.Tree, n *Node) {
	if n == nil {
		return
	}
	children := n.Children()
	if len(children) == 0 {
		printer.AddNode(n.label())
		return
	}
	branch := printer.AddBranch(n.label())
	for _, c := range children {
		addSubtree(branch, c)
	}
}

// DumpTree renders a single equation's parse tree as an ASCII tree, the
// same way persistent/vector's printVec/printNode (npillmayer-fp) render a
// trie for debugging — wired here as a genuine `--trace` feature
// (SPEC_FULL.md §2) rather than a test-only helper.
func DumpTree(v int, root *Node) string {
	printer := tp.New()
	printer.SetValue(fmt.Sprintf("x[%d] = %s", v, root.label()))
	for _, c := range root.Children() {
		addSubtree(printer, c)
	}
	return printer.String()
}

// DumpForest renders every registered equation's parse tree with
// dependencies first: it reads TopoOrder right to left, per spec §3's
// "consumer reads right-to-left for pure dependency order".
func DumpForest(reg *Registry) string {
	out := ""
	for i := len(reg.TopoOrder) - 1; i >= 0; i-- {
		v := reg.TopoOrder[i]
		root, ok := reg.Trees[v]
		if !ok {
			continue
		}
		out += DumpTree(v, root)
	}
	return out
}
