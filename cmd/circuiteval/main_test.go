package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureOutput runs fn while redirecting printfStdOut into a buffer,
// restoring the package-level hook afterward — the same indirection
// cmd/graft/main.go's own tests use to check stdout without a subprocess.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var sb strings.Builder
	old := printfStdOut
	printfStdOut = func(format string, args ...interface{}) {
		sb.WriteString(fmt.Sprintf(format, args...))
	}
	defer func() { printfStdOut = old }()
	fn()
	return sb.String()
}

func runScenario(t *testing.T, in string) []string {
	t.Helper()
	out := captureOutput(t, func() {
		err := run(strings.NewReader(in), 4)
		require.NoError(t, err)
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	return lines
}

func TestScenarioChainedVarReference(t *testing.T) {
	in := "3 2 2\n1 x[0] = x[1]\n2 x[1] = 3\n3\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 P", "3 P 3"}, lines)
}

func TestScenarioCycleRejected(t *testing.T) {
	in := "2 2 2\n1 x[0] = x[1]\n2 x[1] = x[0]\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 F"}, lines)
}

func TestScenarioRedefinitionRejected(t *testing.T) {
	in := "3 2 1\n1 x[0] = 5\n2 x[0] = 7\n3\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 F", "3 P 5"}, lines)
}

func TestScenarioArithmetic(t *testing.T) {
	in := "2 1 1\n1 x[0] = (-(2 + 3)) * 4\n2\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 P -20"}, lines)
}

func TestScenarioFreeVariableWithAssignment(t *testing.T) {
	in := "2 1 2\n1 x[0] = x[1] + 1\n2 x[1]=10\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 P 11"}, lines)
}

func TestScenarioFreeVariableWithoutAssignment(t *testing.T) {
	in := "2 1 2\n1 x[0] = x[1] + 1\n2\n"
	lines := runScenario(t, in)
	require.Equal(t, []string{"1 P", "2 F"}, lines)
}
