package circuit

// Message is the fixed three-field wire record of spec §3: a query
// ordinal, an integer value, and an error bit. Every channel in this
// package carries exactly this type — the receiver tells senders apart
// by which channel produced the value, never by an envelope field.
type Message struct {
	I   int
	Val int64
	Err bool
}

// answer builds a successful reply for query i.
func answer(i int, val int64) Message { return Message{I: i, Val: val, Err: false} }

// fail builds a failed reply for query i.
func fail(i int) Message { return Message{I: i, Val: 0, Err: true} }

// request builds the zero-value request message used to ask a child,
// a VAR leaf's circuit link, or a root's cross-tree link to compute query i.
func request(i int) Message { return Message{I: i, Val: 0, Err: false} }
