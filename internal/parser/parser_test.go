package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wayneeseguin/circuiteval/pkg/circuit"
)

func idGen() IDGen {
	id := 0
	return func() int {
		id++
		return id
	}
}

func TestParseEquationSimpleVarRef(t *testing.T) {
	v, root, err := ParseEquation(idGen(), "x[0] = x[1]")
	require.NoError(t, err)
	require.Equal(t, 0, v)
	require.Equal(t, circuit.KindVar, root.Kind)
	require.Equal(t, 1, root.VarIndex)
}

func TestParseEquationLiteral(t *testing.T) {
	v, root, err := ParseEquation(idGen(), "x[1] = 3")
	require.NoError(t, err)
	require.Equal(t, 1, v)
	require.Equal(t, circuit.KindNum, root.Kind)
	require.EqualValues(t, 3, root.Value)
}

func TestParseEquationArithmetic(t *testing.T) {
	v, root, err := ParseEquation(idGen(), "x[0] = (-(2 + 3)) * 4")
	require.NoError(t, err)
	require.Equal(t, 0, v)
	require.Equal(t, circuit.KindBinary, root.Kind)
	require.Equal(t, byte('*'), root.Op)
	require.Equal(t, circuit.KindUnary, root.Left.Kind)
	require.Equal(t, circuit.KindBinary, root.Left.Right.Kind)
	require.Equal(t, byte('+'), root.Left.Right.Op)
	require.EqualValues(t, 2, root.Left.Right.Left.Value)
	require.EqualValues(t, 3, root.Left.Right.Right.Value)
	require.EqualValues(t, 4, root.Right.Value)
}

func TestParseEquationPrecedence(t *testing.T) {
	_, root, err := ParseEquation(idGen(), "x[0] = x[1] + 1")
	require.NoError(t, err)
	require.Equal(t, circuit.KindBinary, root.Kind)
	require.Equal(t, byte('+'), root.Op)
	require.Equal(t, circuit.KindVar, root.Left.Kind)
	require.EqualValues(t, 1, root.Right.Value)
}

func TestParseEquationMultiplicationBindsTighter(t *testing.T) {
	_, root, err := ParseEquation(idGen(), "x[0] = 2 + 3 * 4")
	require.NoError(t, err)
	require.Equal(t, byte('+'), root.Op)
	require.EqualValues(t, 2, root.Left.Value)
	require.Equal(t, byte('*'), root.Right.Op)
}

func TestParseEquationRejectsGarbage(t *testing.T) {
	_, _, err := ParseEquation(idGen(), "x[0] = 1 +")
	require.Error(t, err)
}

func TestParseEquationRejectsTrailingInput(t *testing.T) {
	_, _, err := ParseEquation(idGen(), "x[0] = 1 2")
	require.Error(t, err)
}

func TestParseEquationMustStartWithVar(t *testing.T) {
	_, _, err := ParseEquation(idGen(), "5 = 1")
	require.Error(t, err)
}
