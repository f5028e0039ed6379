package circuit

import "sort"

// CrossLink is a propagated cross-tree pipe pair of spec §4.2: it connects
// one VAR leaf to the root process of the variable it references.
// VarToRoot/RootToVar are the Go-channel analogues of
// var_write_to_root[i]/root_read_from_var[i] and
// root_write_to_var[i]/var_read_from_root[i].
type CrossLink struct {
	VarToRoot chan Message
	RootToVar chan Message
}

// ControllerLink is a propagated controller↔VAR-leaf pipe pair of spec
// §4.2: every VAR leaf in the forest gets one, regardless of whether its
// variable has an equation.
type ControllerLink struct {
	VarToCircuit chan Message
	CircuitToVar chan Message
}

// LeafLink pairs a VAR leaf's controller link with the variable it
// references, so the controller can look up the right per-query
// assignment without walking the forest itself.
type LeafLink struct {
	Link     *ControllerLink
	VarIndex int
}

// Topology is the pipe planner's output: every propagated channel the
// forest needs, built before any goroutine is spawned (spec §4.2 "All
// propagated pipes are created before any fork"). Non-propagated
// (parent↔child) channels are cheap enough that process.go allocates them
// inline as it spawns, rather than pre-planning them here.
type Topology struct {
	// CrossLinks[w] holds every VAR leaf's cross-link to the root of w, in
	// stable pipe-id order, for every w that has an equation.
	CrossLinks map[int][]*CrossLink

	// Leaves is every VAR leaf's link to the controller, in forest-walk
	// order, paired with the variable it references.
	Leaves []LeafLink

	nodeControllerLink map[*Node]*ControllerLink
}

// BufferDepth returns the channel capacity every pipe in the network is
// allocated with: enough slots for every message that can ever sit
// unread on one channel at once — per query, at most one message on a
// request channel and at most two on a reply channel (a root's
// unconditional broadcast plus a cached unicast) — floored at min. This is the channel analogue of spec §5's "writes are
// expected to fit within kernel pipe buffers": with capacity covering
// the in-flight bound, a send never blocks a dispatch loop, so a parent
// sending a request down cannot deadlock against its child sending a
// reply up.
func BufferDepth(min, queries int) int {
	if min < 1 {
		min = 1
	}
	if d := 2 * queries; d > min {
		return d
	}
	return min
}

// BuildTopology walks every equation root in reg and allocates the
// propagated channels spec §4.2 describes. depth is the channel buffer
// capacity, normally obtained from BufferDepth.
func BuildTopology(reg *Registry, depth int) *Topology {
	if depth < 1 {
		depth = 1
	}
	t := &Topology{
		CrossLinks:         make(map[int][]*CrossLink),
		nodeControllerLink: make(map[*Node]*ControllerLink),
	}

	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case KindVar:
			cl := &ControllerLink{
				VarToCircuit: make(chan Message, depth),
				CircuitToVar: make(chan Message, depth),
			}
			t.nodeControllerLink[n] = cl
			t.Leaves = append(t.Leaves, LeafLink{Link: cl, VarIndex: n.VarIndex})

			if _, hasEq := reg.Trees[n.VarIndex]; hasEq {
				links := t.CrossLinks[n.VarIndex]
				n.PipeID = len(links)
				t.CrossLinks[n.VarIndex] = append(links, &CrossLink{
					VarToRoot: make(chan Message, depth),
					RootToVar: make(chan Message, depth),
				})
			}
		case KindUnary:
			walk(n.Right)
		case KindBinary:
			walk(n.Right)
			walk(n.Left)
		}
	}

	vars := make([]int, 0, len(reg.Trees))
	for v := range reg.Trees {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	for _, v := range vars {
		walk(reg.Trees[v])
	}

	return t
}

// ControllerLinkFor returns the controller link a VAR leaf was assigned.
func (t *Topology) ControllerLinkFor(n *Node) *ControllerLink {
	return t.nodeControllerLink[n]
}

// CrossLinkFor returns the cross-link a VAR leaf referencing w occupies at
// pipeID, i.e. root(w)'s view of that same leaf.
func (t *Topology) CrossLinkFor(w, pipeID int) *CrossLink {
	links := t.CrossLinks[w]
	if pipeID < 0 || pipeID >= len(links) {
		return nil
	}
	return links[pipeID]
}
