package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	r := New(strings.NewReader("4 2 2\nrest\n"))
	h, err := r.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, Header{N: 4, K: 2, V: 2}, h)
}

func TestReadLabeledLine(t *testing.T) {
	r := New(strings.NewReader("1 x[0] = x[1]\n2 x[1] = 3\n"))
	l1, err := r.ReadLabeledLine()
	require.NoError(t, err)
	require.Equal(t, "1", l1.Label)
	require.Equal(t, "x[0] = x[1]", l1.Rest)

	l2, err := r.ReadLabeledLine()
	require.NoError(t, err)
	require.Equal(t, "2", l2.Label)
	require.Equal(t, "x[1] = 3", l2.Rest)
}

func TestReadLabeledLineNoAssignments(t *testing.T) {
	r := New(strings.NewReader("2\n"))
	l, err := r.ReadLabeledLine()
	require.NoError(t, err)
	require.Equal(t, "2", l.Label)
	require.Equal(t, "", l.Rest)
}

func TestParseAssignmentsEmpty(t *testing.T) {
	m, err := ParseAssignments("")
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestParseAssignmentsMultiple(t *testing.T) {
	m, err := ParseAssignments("x[1]=10 x[2]=20")
	require.NoError(t, err)
	require.Equal(t, map[int]int64{1: 10, 2: 20}, m)
}

func TestParseAssignmentsRejectsDuplicate(t *testing.T) {
	_, err := ParseAssignments("x[1]=10 x[1]=20")
	require.Error(t, err)
}

func TestParseAssignmentsRejectsMalformed(t *testing.T) {
	_, err := ParseAssignments("x[1]10")
	require.Error(t, err)
}
