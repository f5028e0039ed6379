package circuit

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
)

// Query is one query line's parsed form (spec §6): a label for output
// matching, and the partial assignment it supplies.
type Query struct {
	Label       string
	Assignments map[int]int64
}

// QueryResult is the verdict for one query, ready to be printed by
// cmd/circuiteval as "<label> P <value>" or "<label> F".
type QueryResult struct {
	Label string
	OK    bool
	Value int64
}

// RunQueries is the controller of spec §4.5. It seeds every query at
// variable 0's root, services every VAR leaf's lookup against that
// query's own assignment map, and collects each query's verdict. Queries
// are seeded all at once and serviced by the same reflect.Select loop, so
// independent queries really do evaluate concurrently the way the
// process-per-node network allows (spec §5's "at most N-K concurrent
// queries in flight").
func RunQueries(topo *Topology, handles map[int]*RootHandle, queries []Query) []QueryResult {
	results := make([]QueryResult, len(queries))

	for i, q := range queries {
		results[i].Label = q.Label
	}

	var0, hasVar0 := handles[0]
	pending := 0
	if hasVar0 {
		pending = len(queries)
		// Seeded from a separate goroutine so a query count larger than
		// var0.Req's buffer never deadlocks against the drain loop below:
		// the root may need to emit more completed replies than fit in its
		// own buffered Reply channel before every request has been sent,
		// so sends and receives must proceed concurrently, not sequentially.
		go func() {
			for i := range queries {
				var0.Req <- request(i)
			}
		}()
	}

	if pending > 0 {
		cases := make([]reflect.SelectCase, 0, 1+len(topo.Leaves))
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(var0.Reply)})
		for _, lf := range topo.Leaves {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(lf.Link.VarToCircuit)})
		}

		for pending > 0 {
			chosen, val, ok := reflect.Select(cases)
			if !ok {
				// var0's root or a leaf exited early — cannot happen in a
				// correctly built forest before shutdown, but don't spin.
				break
			}
			if chosen == 0 {
				msg := val.Interface().(Message)
				results[msg.I] = QueryResult{Label: queries[msg.I].Label, OK: !msg.Err, Value: msg.Val}
				pending--
				continue
			}
			lf := topo.Leaves[chosen-1]
			msg := val.Interface().(Message)
			if v, ok := queries[msg.I].Assignments[lf.VarIndex]; ok {
				lf.Link.CircuitToVar <- answer(msg.I, v)
			} else {
				lf.Link.CircuitToVar <- fail(msg.I)
			}
		}
	}

	return results
}

// QueryFailures aggregates every failed query's verdict into a single
// error for batch diagnostics, or nil when every query produced a value.
// Failures are normal outcomes as far as the output contract goes (they
// are printed as `F` lines), so this is never part of the run's exit
// status — cmd/circuiteval reports it through the debug log only.
func QueryFailures(results []QueryResult) error {
	var errs *multierror.Error
	for _, r := range results {
		if !r.OK {
			errs = multierror.Append(errs, fmt.Errorf("query %s: variable 0 not computable", r.Label))
		}
	}
	return errs.ErrorOrNil()
}

// Shutdown closes the controller's write end to every equation root
// (SPEC_FULL.md §5) — not only variable 0's — so the shutdown cascade
// reaches every root that was spawned, including roots no query ever
// referenced directly. The caller joins the accompanying sync.WaitGroup
// afterward to observe every process exit (spec §4.5 point 5, §5 "Process
// collection").
func Shutdown(handles map[int]*RootHandle) {
	for _, h := range handles {
		close(h.Req)
	}
}
