// Package q931 declares the contracts the CC controller expects from its
// host environment: the Q.931 call-control engine and the D-channel timer
// scheduler. Neither is implemented here — they
// are external collaborators per the controller's scope — but the core
// depends on these interfaces rather than any concrete call-control stack,
// so it can be driven by a fake in tests and by a real Q.931 engine in
// production.
package q931

import "context"

// MsgType is a Q.931 message type an APDU entry may be tagged to ride on,
// or the sentinel Any meaning "the next outgoing message regardless of
// type".
type MsgType int

const (
	Any MsgType = iota
	Setup
	Connect
	Disconnect
	Release
	Facility
	Register
)

// Call is a Q.931 call leg. The controller never owns call legs; it only
// holds non-owning references and asks the host to create/destroy/locate
// them.
type Call interface {
	// ID returns a value stable for the call leg's life, suitable for
	// logging and span attributes.
	ID() string

	// QueueAPDU appends a FACILITY-IE payload tagged with the given
	// target message type to this call's outbound APDU queue.
	QueueAPDU(target MsgType, payload []byte, resp *ResponseDescriptor)

	// SendFacilityNow flushes the call's queued APDUs into a FACILITY
	// message immediately rather than waiting for a host message of the
	// matching type.
	SendFacilityNow() error

	// Send emits a CONNECT/DISCONNECT/RELEASE/REGISTER/SETUP message for
	// this call leg.
	Send(msg MsgType) error
}

// ResponseDescriptor is attached to a queued APDU entry when the sender
// expects a ROSE response or a timeout. TimeoutMs of 0 means "messages
// only": the caller is woken when a message in MatchMsgTypes arrives, not
// by a timer.
type ResponseDescriptor struct {
	InvokeID      int32
	TimeoutMs     int
	MatchMsgTypes []MsgType
	Callback      ResponseCallback
}

// ResponseReason is why a response callback fired.
type ResponseReason int

const (
	ReasonResult ResponseReason = iota
	ReasonError
	ReasonReject
	ReasonTimeout
	ReasonCleanup
)

// ResponseCallback is invoked when a queued APDU's response arrives,
// times out, or the call is destroyed out from under it. Returning true
// tells the queue the entry is fully consumed and may be removed;
// returning false leaves it pending (used for multi-message "messages
// only" watches).
type ResponseCallback func(reason ResponseReason, payload []byte) (done bool)

// Sink is the Q.931 host environment contract: creating/destroying calls,
// looking them up, and locating the D-channel's broadcast dummy call used
// for PTMP bus aliasing.
type Sink interface {
	NewCall(channelID string) Call
	DestroyCall(c Call)
	LookupByLinkID(linkID string) (Call, bool)
	HeldPeer(c Call) (Call, bool)
	DummyCall(channelID string) (Call, bool)
}

// TimerHandle identifies an armed timer; the zero value means "no timer
// armed".
type TimerHandle uint64

// Scheduler is the monotonic, cancellable, one-shot timer service the
// D-channel I/O layer provides.
type Scheduler interface {
	Schedule(ctx context.Context, ms int, cb func(context.Context)) TimerHandle
	Cancel(h TimerHandle)
}

// SubcommandSink is the upper-layer event channel by which the controller
// reports CC availability, requests, status, recall, and cancellation to
// the application. AllocSlot returns nil when the batch is full; the
// caller drops the event silently since the next Q.931 dispatch flushes
// the subcommand batch anyway.
type SubcommandSink interface {
	AllocSlot(ctrl string) Slot
}

// Slot is a single subcommand event handed to the application.
type Slot interface {
	Set(kind string, fields map[string]any)
}
