package circuit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpTreeRendersKinds(t *testing.T) {
	lit := NumNode(1, 4)
	unary := UnaryNode(2, lit)
	out := DumpTree(0, unary)
	require.Contains(t, out, "UNARY -")
	require.Contains(t, out, "NUM 4")
}

func TestDumpForestOrdersDependenciesFirst(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Accept(1, NumNode(reg.NextID(), 3)))
	require.True(t, reg.Accept(0, VarNode(reg.NextID(), 1)))

	out := DumpForest(reg)
	i1 := strings.Index(out, "x[1]")
	i0 := strings.Index(out, "x[0]")
	require.GreaterOrEqual(t, i1, 0)
	require.GreaterOrEqual(t, i0, 0)
	require.Less(t, i1, i0)
}
