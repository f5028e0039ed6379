package circuit

import "sync"

// RootHandle is what the controller holds for one equation root: the
// channel it writes queries on (and closes to trigger shutdown), and,
// only for variable 0, the channel it reads verdicts from.
//
// Every root gets Req so the controller can close its write end to *every*
// root at shutdown (SPEC_FULL.md §5), not just variable 0's — matching
// circuit.c's behavior of forking and tearing down a process for every
// topologically ordered equation root, even ones no query ever reaches
// directly.
type RootHandle struct {
	Variable int
	Req      chan Message
	Reply    <-chan Message
}

// SpawnAll is the process factory of spec §4.3, rendered as goroutines: it
// walks every equation root in reg and recursively spawns one goroutine
// per parse-tree node, wiring non-propagated (parent↔child) channels
// inline and handing roots the propagated cross-links BuildTopology
// already allocated.
//
// Descriptor-hygiene in the original is a closing discipline over
// inherited file descriptors; here it is enforced at compile time by
// directional channel types and lexical scope — a spawned goroutine is
// simply never given a channel end it does not own, so there is nothing
// to leak or forget to close.
func SpawnAll(reg *Registry, topo *Topology, depth int, wg *sync.WaitGroup) map[int]*RootHandle {
	if depth < 1 {
		depth = 1
	}
	handles := make(map[int]*RootHandle, len(reg.Trees))

	for v, root := range reg.Trees {
		reqCh := make(chan Message, depth)
		var replyCh chan Message
		if v == 0 {
			replyCh = make(chan Message, depth)
		}

		wg.Add(1)
		go spawnNode(root, reg, topo, depth, wg, reqCh, replyCh, topo.CrossLinks[v])

		handles[v] = &RootHandle{Variable: v, Req: reqCh, Reply: replyCh}
	}
	return handles
}

// spawnNode runs as the goroutine for node n. It recursively spawns n's
// operator children (right then left for BINARY, matching spec §4.3's
// walk order) before entering n's own event loop.
func spawnNode(n *Node, reg *Registry, topo *Topology, depth int, wg *sync.WaitGroup, parentReq <-chan Message, parentReply chan<- Message, crossLinks []*CrossLink) {
	defer wg.Done()

	switch n.Kind {
	case KindNum:
		runNum(n, parentReq, parentReply, crossLinks)

	case KindVar:
		cLink := topo.ControllerLinkFor(n)
		var rLink *CrossLink
		if _, hasEq := reg.Trees[n.VarIndex]; hasEq {
			rLink = topo.CrossLinkFor(n.VarIndex, n.PipeID)
		}
		runVar(n, parentReq, parentReply, cLink, rLink, crossLinks)

	case KindUnary:
		rightReq := make(chan Message, depth)
		rightReply := make(chan Message, depth)
		wg.Add(1)
		go spawnNode(n.Right, reg, topo, depth, wg, rightReq, rightReply, nil)
		runUnary(n, parentReq, parentReply, rightReq, rightReply, crossLinks)

	case KindBinary:
		rightReq := make(chan Message, depth)
		rightReply := make(chan Message, depth)
		leftReq := make(chan Message, depth)
		leftReply := make(chan Message, depth)
		wg.Add(2)
		go spawnNode(n.Right, reg, topo, depth, wg, rightReq, rightReply, nil)
		go spawnNode(n.Left, reg, topo, depth, wg, leftReq, leftReply, nil)
		runBinary(n, parentReq, parentReply, rightReq, rightReply, leftReq, leftReply, crossLinks)
	}
}
