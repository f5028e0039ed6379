package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcceptRejectsRedefinition(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Accept(0, NumNode(reg.NextID(), 5)))
	require.False(t, reg.Accept(0, NumNode(reg.NextID(), 7)))

	root, ok := reg.Root(0)
	require.True(t, ok)
	require.EqualValues(t, 5, root.Value)
	require.Error(t, reg.Err())
}

func TestAcceptRejectsCycleAtClosingEquation(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Accept(0, VarNode(reg.NextID(), 1)))
	ok := reg.Accept(1, VarNode(reg.NextID(), 0))
	require.False(t, ok)

	_, hasEq1 := reg.Root(1)
	require.False(t, hasEq1, "the cycle-closing equation must not be installed")
}

func TestAcceptRejectsSelfReferenceThroughNoOtherVariable(t *testing.T) {
	reg := NewRegistry()
	ok := reg.Accept(0, VarNode(reg.NextID(), 0))
	require.False(t, ok)
}

func TestAcyclicityPreservedAfterEveryAccept(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Accept(2, NumNode(reg.NextID(), 1)))
	require.True(t, reg.Accept(1, VarNode(reg.NextID(), 2)))
	require.True(t, reg.Accept(0, VarNode(reg.NextID(), 1)))

	order, err := checkAcyclic(reg.Trees)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{0, 1, 2}, order)
}

func TestFreeVariableWithNoEquationIsAllowed(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Accept(0, VarNode(reg.NextID(), 7)))
	_, hasEq := reg.Root(7)
	require.False(t, hasEq)
}
