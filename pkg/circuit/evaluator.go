package circuit

import "reflect"

// status is the per-query state of spec §3, covering every node kind's
// state machine from spec §4.4: PNUM needs none of it, VAR leaves use
// unseen/askedCircuit/askedRoot/answered{OK,Fail}, UNARY/BINARY use
// unseen/askedOneChild/haveLeft/answered{OK,Fail}.
type status int

const (
	unseen status = iota
	askedOneChild
	haveLeft
	askedCircuit
	askedRoot
	answeredOK
	answeredFail
)

type queryState struct {
	status status
	cached int64
}

// role tags a reflect.Select case so the dispatch switch below knows how
// to interpret a fired case without re-deriving it from the channel value.
type role int

const (
	roleParent role = iota
	roleCross         // an asker: another tree's VAR leaf, via this root's cross-link
	roleRight
	roleLeft
	roleCircuit
	roleRoot
)

type selCase struct {
	role role
	idx  int // cross-link index, meaningful only for roleCross
}

// broadcast sends msg to every eligible requester of node n: its parent
// (unless n is a root for a variable other than 0 — spec §4.4's broadcast
// suppression, ported from circuit.c's `if (!self->is_root || x == 0)`)
// and, if n is a root, every cross-tree VAR leaf that references it.
func broadcast(n *Node, parentReply chan<- Message, crossLinks []*CrossLink, msg Message) {
	if !n.IsRoot || n.Variable == 0 {
		if parentReply != nil {
			parentReply <- msg
		}
	}
	if n.IsRoot {
		for _, cl := range crossLinks {
			cl.RootToVar <- msg
		}
	}
}

// askerCases builds the reflect.Select cases for parentReq plus, if n is a
// root, every cross-link asker — the set of descriptors that can *request*
// a computation of n, common to every node kind.
func askerCases(parentReq <-chan Message, crossLinks []*CrossLink) ([]reflect.SelectCase, []selCase) {
	cases := []reflect.SelectCase{{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(parentReq)}}
	meta := []selCase{{role: roleParent}}
	for i, cl := range crossLinks {
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(cl.VarToRoot)})
		meta = append(meta, selCase{role: roleCross, idx: i})
	}
	return cases, meta
}

// dropCase removes the case at i from both slices, used when a
// non-parent asker channel unexpectedly closes so the loop doesn't
// busy-spin on an always-ready closed channel.
func dropCase(cases []reflect.SelectCase, meta []selCase, i int) ([]reflect.SelectCase, []selCase) {
	cases = append(cases[:i], cases[i+1:]...)
	meta = append(meta[:i], meta[i+1:]...)
	return cases, meta
}

// runNum is the PNUM leaf loop of spec §4.4: no cache, it replies to
// whichever descriptor asked with the literal value.
func runNum(n *Node, parentReq <-chan Message, parentReply chan<- Message, crossLinks []*CrossLink) {
	cases, meta := askerCases(parentReq, crossLinks)
	for len(cases) > 0 {
		chosen, val, ok := reflect.Select(cases)
		m := meta[chosen]
		if !ok {
			if m.role == roleParent {
				return
			}
			cases, meta = dropCase(cases, meta, chosen)
			continue
		}
		req := val.Interface().(Message)
		reply := answer(req.I, n.Value)
		switch m.role {
		case roleParent:
			if parentReply != nil {
				parentReply <- reply
			}
		case roleCross:
			crossLinks[m.idx].RootToVar <- reply
		}
	}
}

// runVar is the VAR leaf loop of spec §4.4.
func runVar(n *Node, parentReq <-chan Message, parentReply chan<- Message, circuitLink *ControllerLink, rootLink *CrossLink, crossLinks []*CrossLink) {
	askers, askerMeta := askerCases(parentReq, crossLinks)

	driverCases := []reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(circuitLink.CircuitToVar)},
	}
	driverRoles := []role{roleCircuit}
	if rootLink != nil {
		driverCases = append(driverCases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(rootLink.RootToVar)})
		driverRoles = append(driverRoles, roleRoot)
	}

	cache := make(map[int]*queryState)

	for len(askers) > 0 {
		cases := append(append([]reflect.SelectCase{}, askers...), driverCases...)
		chosen, val, ok := reflect.Select(cases)

		if chosen < len(askers) {
			m := askerMeta[chosen]
			if !ok {
				if m.role == roleParent {
					return
				}
				askers, askerMeta = dropCase(askers, askerMeta, chosen)
				continue
			}
			req := val.Interface().(Message)
			st, seen := cache[req.I]
			if !seen {
				st = &queryState{status: unseen}
				cache[req.I] = st
			}
			switch st.status {
			case answeredOK:
				unicast(m, parentReply, crossLinks, answer(req.I, st.cached))
			case answeredFail:
				unicast(m, parentReply, crossLinks, fail(req.I))
			case unseen:
				st.status = askedCircuit
				circuitLink.VarToCircuit <- request(req.I)
			default:
				// already in flight; the eventual broadcast reaches every asker.
			}
			continue
		}

		driverIdx := chosen - len(askers)
		drole := driverRoles[driverIdx]
		if !ok {
			// circuit/root link closed without us closing it — treat as
			// an unexpected shutdown of the far side; nothing more to do
			// on this driver for the rest of the run.
			driverCases = append(driverCases[:driverIdx], driverCases[driverIdx+1:]...)
			driverRoles = append(driverRoles[:driverIdx], driverRoles[driverIdx+1:]...)
			continue
		}
		resp := val.Interface().(Message)
		st, seen := cache[resp.I]
		if !seen {
			st = &queryState{status: unseen}
			cache[resp.I] = st
		}

		switch drole {
		case roleCircuit:
			if !resp.Err {
				st.status, st.cached = answeredOK, resp.Val
				broadcast(n, parentReply, crossLinks, answer(resp.I, resp.Val))
			} else if rootLink == nil {
				st.status = answeredFail
				broadcast(n, parentReply, crossLinks, fail(resp.I))
			} else {
				st.status = askedRoot
				rootLink.VarToRoot <- request(resp.I)
			}
		case roleRoot:
			if st.status != askedRoot {
				// broadcast() fans a root's answer out to every registered
				// cross-link unconditionally (spec §4.4), so this leaf can
				// see a reply before it has asked (or after it has already
				// answered) whenever another leaf sharing the same root
				// asks first. Not our own ask yet: drop it, the same way
				// circuit.c's unified cache_status check only ever acts on
				// a message while actually waiting for it.
				continue
			}
			if resp.Err {
				st.status = answeredFail
				broadcast(n, parentReply, crossLinks, fail(resp.I))
			} else {
				st.status, st.cached = answeredOK, resp.Val
				broadcast(n, parentReply, crossLinks, answer(resp.I, resp.Val))
			}
		}
	}
}

// unicast replies to the single asker identified by m — the "ANSWERED_*,
// receive a request from any asker: reply from cache" branch of spec §4.4.
func unicast(m selCase, parentReply chan<- Message, crossLinks []*CrossLink, msg Message) {
	switch m.role {
	case roleParent:
		if parentReply != nil {
			parentReply <- msg
		}
	case roleCross:
		crossLinks[m.idx].RootToVar <- msg
	}
}

// runUnary is the UNARY internal-node loop of spec §4.4.
func runUnary(n *Node, parentReq <-chan Message, parentReply chan<- Message, rightReq chan<- Message, rightReply <-chan Message, crossLinks []*CrossLink) {
	askers, askerMeta := askerCases(parentReq, crossLinks)
	driverCases := []reflect.SelectCase{{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(rightReply)}}

	cache := make(map[int]*queryState)

	for len(askers) > 0 {
		cases := append(append([]reflect.SelectCase{}, askers...), driverCases...)
		chosen, val, ok := reflect.Select(cases)

		if chosen < len(askers) {
			m := askerMeta[chosen]
			if !ok {
				if m.role == roleParent {
					close(rightReq)
					return
				}
				askers, askerMeta = dropCase(askers, askerMeta, chosen)
				continue
			}
			req := val.Interface().(Message)
			st, seen := cache[req.I]
			if !seen {
				st = &queryState{status: unseen}
				cache[req.I] = st
			}
			switch st.status {
			case answeredOK:
				unicast(m, parentReply, crossLinks, answer(req.I, st.cached))
			case answeredFail:
				unicast(m, parentReply, crossLinks, fail(req.I))
			case unseen:
				st.status = askedOneChild
				rightReq <- request(req.I)
			default:
			}
			continue
		}

		// the only driver is the child's reply.
		if !ok {
			return
		}
		resp := val.Interface().(Message)
		st, seen := cache[resp.I]
		if !seen {
			st = &queryState{status: unseen}
			cache[resp.I] = st
		}
		if st.status != askedOneChild {
			// the child's own root can be shared with another subtree and
			// broadcast its answer to that subtree before we ever asked —
			// not our ask: drop it rather than accept it as ours.
			continue
		}
		if resp.Err {
			st.status = answeredFail
			broadcast(n, parentReply, crossLinks, fail(resp.I))
			continue
		}
		st.status, st.cached = answeredOK, -resp.Val
		broadcast(n, parentReply, crossLinks, answer(resp.I, st.cached))
	}
}

// runBinary is the BINARY internal-node loop of spec §4.4: the root
// requests both children (right then left, per spec §4.3's walk order),
// combines the first reply (stored) with the second using the node's
// operator once both have answered.
func runBinary(n *Node, parentReq <-chan Message, parentReply chan<- Message, rightReq chan<- Message, rightReply <-chan Message, leftReq chan<- Message, leftReply <-chan Message, crossLinks []*CrossLink) {
	askers, askerMeta := askerCases(parentReq, crossLinks)
	driverCases := []reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(rightReply)},
		{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(leftReply)},
	}

	cache := make(map[int]*queryState)
	// pending[i] holds the first child's value once HAVE_LEFT is reached,
	// regardless of which physical child (right or left) answered first —
	// named after spec's HAVE_LEFT state label, not the left child itself.
	pending := make(map[int]int64)

	for len(askers) > 0 {
		cases := append(append([]reflect.SelectCase{}, askers...), driverCases...)
		chosen, val, ok := reflect.Select(cases)

		if chosen < len(askers) {
			m := askerMeta[chosen]
			if !ok {
				if m.role == roleParent {
					close(rightReq)
					close(leftReq)
					return
				}
				askers, askerMeta = dropCase(askers, askerMeta, chosen)
				continue
			}
			req := val.Interface().(Message)
			st, seen := cache[req.I]
			if !seen {
				st = &queryState{status: unseen}
				cache[req.I] = st
			}
			switch st.status {
			case answeredOK:
				unicast(m, parentReply, crossLinks, answer(req.I, st.cached))
			case answeredFail:
				unicast(m, parentReply, crossLinks, fail(req.I))
			case unseen:
				st.status = askedOneChild
				rightReq <- request(req.I)
				leftReq <- request(req.I)
			default:
			}
			continue
		}

		if !ok {
			return
		}
		resp := val.Interface().(Message)
		st, seen := cache[resp.I]
		if !seen {
			st = &queryState{status: unseen}
			cache[resp.I] = st
		}
		if st.status != askedOneChild && st.status != haveLeft {
			// one child's own root can be shared with another subtree and
			// broadcast its answer to that subtree before either of our
			// children were ever asked (or after we've already answered) —
			// not a reply to our own ask: drop it instead of letting it
			// masquerade as the other child's value below.
			continue
		}
		if resp.Err {
			st.status = answeredFail
			broadcast(n, parentReply, crossLinks, fail(resp.I))
			continue
		}
		if st.status == askedOneChild {
			st.status = haveLeft
			pending[resp.I] = resp.Val
			continue
		}
		// haveLeft: combine with the stored value.
		left := pending[resp.I]
		delete(pending, resp.I)
		var combined int64
		switch n.Op {
		case '+':
			combined = left + resp.Val
		case '*':
			combined = left * resp.Val
		}
		st.status, st.cached = answeredOK, combined
		broadcast(n, parentReply, crossLinks, answer(resp.I, combined))
	}
}
