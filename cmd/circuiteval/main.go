// Command circuiteval is the controller-adjacent glue of spec §6: it reads
// the `N K V` / equations / queries input format from stdin, drives
// pkg/circuit's distributed evaluator, and writes `<label> P`/`<label>
// F`/`<label> P <value>` lines to stdout. Adapted from cmd/graft/main.go's
// option-struct shape and exit/usage indirections, with the YAML-merge
// subcommands replaced by a single evaluation pass.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/circuiteval/internal/input"
	"github.com/wayneeseguin/circuiteval/internal/parser"
	"github.com/wayneeseguin/circuiteval/log"
	"github.com/wayneeseguin/circuiteval/pkg/circuit"
)

// Version holds the current version of circuiteval.
var Version = "(development)"

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && strings.ToLower(val) != "false" && val != "0"
}

type options struct {
	Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
	Trace   bool   `goptions:"-T, --trace, description='Enable trace mode, dumps the equation dependency forest'"`
	Version bool   `goptions:"-v, --version, description='Display version information'"`
	Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
	Workers int    `goptions:"--workers, description='Minimum channel buffer depth standing in for a pipe kernel buffer (default 8)'"`
}

func main() {
	var opts options
	opts.Workers = 8
	getopts(&opts)

	if envFlag("DEBUG") || opts.Debug {
		log.SetDebug(true)
	}
	if envFlag("TRACE") || opts.Trace {
		log.SetTrace(true)
	}

	if opts.Version {
		printfStdOut("%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch opts.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", opts.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	if err := run(os.Stdin, opts.Workers); err != nil {
		circuit.Fatal(err)
		exit(2)
		return
	}
}

// run drives one full evaluation pass over r: equation ingest, process
// spawning, query evaluation, and result printing (spec §6). It returns
// only system-failure-class errors (spec §7) — equation/query rejections
// are printed as `F` lines and never abort the run, except a malformed
// equation or query line, which SPEC_FULL.md §3 treats as fatal, matching
// circuit.c's looming_doom("PARSE ERR").
func run(r io.Reader, workers int) error {
	in := input.New(r)

	header, err := in.ReadHeader()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	reg := circuit.NewRegistry()

	for k := 0; k < header.K; k++ {
		ll, err := in.ReadLabeledLine()
		if err != nil {
			return fmt.Errorf("reading equation line: %w", err)
		}
		v, root, err := parser.ParseEquation(reg.NextID, ll.Rest)
		if err != nil {
			return fmt.Errorf("equation %s: parse error: %w", ll.Label, err)
		}
		if reg.Accept(v, root) {
			printfStdOut("%s P\n", ll.Label)
		} else {
			printfStdOut("%s F\n", ll.Label)
		}
	}

	if err := reg.Err(); err != nil {
		log.DEBUG("equation ingest rejections:\n%s", err)
	}

	if log.TraceOn() {
		log.PrintfStdErr("%s", circuit.DumpForest(reg))
	}

	queries := make([]circuit.Query, 0, header.N-header.K)
	for i := 0; i < header.N-header.K; i++ {
		ll, err := in.ReadLabeledLine()
		if err != nil {
			return fmt.Errorf("reading query line: %w", err)
		}
		assignments, err := input.ParseAssignments(ll.Rest)
		if err != nil {
			return fmt.Errorf("query %s: parse error: %w", ll.Label, err)
		}
		queries = append(queries, circuit.Query{Label: ll.Label, Assignments: assignments})
	}

	// Queries are read before the network is built so every channel can be
	// sized to the whole run's in-flight message bound up front.
	depth := circuit.BufferDepth(workers, len(queries))
	topo := circuit.BuildTopology(reg, depth)
	var wg sync.WaitGroup
	handles := circuit.SpawnAll(reg, topo, depth, &wg)

	results := circuit.RunQueries(topo, handles, queries)

	circuit.Shutdown(handles)
	wg.Wait()

	if err := circuit.QueryFailures(results); err != nil {
		log.DEBUG("query failures:\n%s", err)
	}

	for _, res := range results {
		if res.OK {
			printfStdOut("%s P %d\n", res.Label, res.Value)
		} else {
			printfStdOut("%s F\n", res.Label)
		}
	}

	return nil
}
