package circuit

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Registry is the process-wide equation table of spec §3: `trees[v]` plus
// a topological ordering, built once during ingest and frozen thereafter
// (spec §9 "Global registry"). It is never mutated after the last call to
// Accept returns, so it can be passed to every process goroutine as an
// immutable borrow.
type Registry struct {
	Trees     map[int]*Node
	TopoOrder []int

	nextID int
	errs   *multierror.Error
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{Trees: make(map[int]*Node)}
}

// NextID hands out the next forest-wide unique node sequence number.
func (r *Registry) NextID() int {
	r.nextID++
	return r.nextID
}

// Accept ingests the equation `x[v] = root` per spec §4.1:
//  1. reject if trees[v] is already set;
//  2. tentatively set it and run the acyclicity DFS;
//  3. on a cycle, revert and reject;
//  4. on success, adopt the fresh topological order.
//
// It reports true/false for the equation's P/F verdict. Rejections are
// also accumulated into the registry's aggregate error (via
// hashicorp/go-multierror) so a caller processing a whole batch can report
// every ingest failure at once instead of stopping at the first one.
func (r *Registry) Accept(v int, root *Node) bool {
	if _, exists := r.Trees[v]; exists {
		r.errs = multierror.Append(r.errs, fmt.Errorf("variable %d: redefinition rejected", v))
		return false
	}

	r.Trees[v] = root
	order, err := checkAcyclic(r.Trees)
	if err != nil {
		delete(r.Trees, v)
		r.errs = multierror.Append(r.errs, fmt.Errorf("variable %d: %w", v, err))
		return false
	}

	root.IsRoot = true
	root.Variable = v
	r.TopoOrder = order
	return true
}

// Err returns the aggregate of every rejected equation's error, or nil if
// every equation so far was accepted.
func (r *Registry) Err() error {
	if r.errs == nil {
		return nil
	}
	return r.errs.ErrorOrNil()
}

// Root returns the root node defining v, and whether v has an equation.
func (r *Registry) Root(v int) (*Node, bool) {
	n, ok := r.Trees[v]
	return n, ok
}
