// Package apdu implements the outbound ROSE payload queue attached to a
// Q.931 call leg: entries wait for their target message type to be sent,
// carry an optional response descriptor, and are matched against inbound
// ROSE responses by invoke id.
package apdu

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
)

// Entry is one queued outbound ROSE payload.
type Entry struct {
	Target  q931.MsgType
	Payload []byte
	Sent    bool
	Resp    *q931.ResponseDescriptor
}

// Queue is the ordered list of outbound entries for one call leg.
type Queue struct {
	entries []*Entry
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Append adds a new entry at the tail of the queue.
func (q *Queue) Append(target q931.MsgType, payload []byte, resp *q931.ResponseDescriptor) *Entry {
	e := &Entry{Target: target, Payload: payload, Resp: resp}
	q.entries = append(q.entries, e)
	return e
}

// Len returns the number of entries currently queued (sent or not).
func (q *Queue) Len() int {
	return len(q.entries)
}

// Flush serialises every unsent entry targeting msgType (or q931.Any) in
// queue order, marks them sent, and returns their payloads concatenated in
// order for the caller to place into the outbound FACILITY IE. Entries
// carrying a response descriptor are left in the queue awaiting their
// response or timeout; entries with no response descriptor are removed
// once sent.
func (q *Queue) Flush(msgType q931.MsgType) [][]byte {
	var out [][]byte
	var remaining []*Entry
	for _, e := range q.entries {
		if e.Sent || (e.Target != msgType && e.Target != q931.Any) {
			remaining = append(remaining, e)
			continue
		}
		e.Sent = true
		out = append(out, e.Payload)
		if e.Resp != nil {
			remaining = append(remaining, e)
		}
	}
	q.entries = remaining
	return out
}

// TimeoutOnMessage scans for entries, sent or not, whose response descriptor lists
// msgType among MatchMsgTypes; each matching entry's callback fires with
// ReasonTimeout and the entry is removed, since a matching message arrival
// means the response that was being awaited will never come as a ROSE
// reply — the message itself settles it.
func (q *Queue) TimeoutOnMessage(msgType q931.MsgType) {
	var remaining []*Entry
	for _, e := range q.entries {
		if e.Resp == nil || !matchesAny(e.Resp.MatchMsgTypes, msgType) {
			remaining = append(remaining, e)
			continue
		}
		e.Resp.Callback(q931.ReasonTimeout, nil)
		// matched-message entries are always fully consumed
	}
	q.entries = remaining
}

func matchesAny(types []q931.MsgType, target q931.MsgType) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

// Respond looks up invokeID among queued entries and invokes its callback
// with the given reason and payload. If the callback reports done, the
// entry is removed. Returns true if an entry was found.
func (q *Queue) Respond(invokeID int32, reason q931.ResponseReason, payload []byte) bool {
	for i, e := range q.entries {
		if e.Resp == nil || e.Resp.InvokeID != invokeID {
			continue
		}
		done := e.Resp.Callback(reason, payload)
		if done {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
		}
		return true
	}
	return false
}

// Cleanup invokes every pending callback once with ReasonCleanup and
// empties the queue. Called when the owning call leg is destroyed.
func (q *Queue) Cleanup() {
	for _, e := range q.entries {
		if e.Resp != nil {
			e.Resp.Callback(q931.ReasonCleanup, nil)
		}
	}
	q.entries = nil
}

// Lookup searches a concrete call's queue first, falling back to the
// D-channel's broadcast dummy-call queue if the concrete call is itself a
// dummy or the invoke id is not found there. This is the two-call search
// PTMP bus broadcast responses require: a CCBSStatusRequest invoke sent on
// a real call may be answered on the bus's alias dummy call instead.
func Lookup(dummyQueue, concreteQueue *Queue, invokeID int32) (q *Queue, found bool) {
	if concreteQueue != nil {
		for _, e := range concreteQueue.entries {
			if e.Resp != nil && e.Resp.InvokeID == invokeID {
				return concreteQueue, true
			}
		}
	}
	if dummyQueue != nil {
		for _, e := range dummyQueue.entries {
			if e.Resp != nil && e.Resp.InvokeID == invokeID {
				return dummyQueue, true
			}
		}
	}
	return nil, false
}
