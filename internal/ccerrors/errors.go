// Package ccerrors provides the error taxonomy for the Call Completion
// controller. This is a leaf package with no internal dependencies, designed
// to be imported by internal/cc/fsm, internal/cc/record and internal/cc
// without causing circular imports.
//
// Import graph: ccerrors <- record <- fsm <- cc (fsm and cc also import
// ccerrors directly)
package ccerrors

import (
	"fmt"
)

// WireCode identifies a protocol-level ROSE error or reject, numbered per
// the status codes the controller hands back on cc_req_rsp (see the wire
// taxonomy table: timeout/short-term, long-term, not-subscribed, queue-full).
type WireCode int

const (
	// WireTimeout covers both timeout and short-term denial; the core does
	// not distinguish them at the cc_req_rsp boundary.
	WireTimeout WireCode = iota + 1

	// WireLongTerm indicates a long-term denial (CCBS_LongTermDenial,
	// CCBS_T_LongTermDenial, QSIG_LongTermRejection).
	WireLongTerm

	// WireNotSubscribed indicates the far end does not subscribe to CC
	// (Gen_NotSubscribed, or QSIG_LongTermRejection on Q.SIG).
	WireNotSubscribed

	// WireQueueFull indicates the outgoing CCBS queue is full
	// (CCBS_OutgoingCCBSQueueFull, CCBS_T_ShortTermDenial,
	// QSIG_ShortTermRejection).
	WireQueueFull

	// WireNotReady indicates a recall attempt arrived before party A was
	// confirmed free (CCBS_NotReadyForCall, QSIG_FailureToMatch,
	// QSIG_FailedDueToInterworking).
	WireNotReady

	// WireInvalidReference indicates CCBSInterrogate/CCNRInterrogate named
	// a reference id the pool does not hold (CCBS_InvalidCCBSReference).
	WireInvalidReference

	// WireRejected marks an ROSE reject received in place of an error or
	// result; it counts the same as WireTimeout for callback purposes.
	WireRejected
)

func (c WireCode) String() string {
	switch c {
	case WireTimeout:
		return "Timeout"
	case WireLongTerm:
		return "LongTermDenial"
	case WireNotSubscribed:
		return "NotSubscribed"
	case WireQueueFull:
		return "QueueFull"
	case WireNotReady:
		return "NotReadyForCall"
	case WireInvalidReference:
		return "InvalidReference"
	case WireRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// ProtocolError is a ROSE error, reject, or wire-level denial accepted or
// emitted by the controller. Protocol errors map deterministically to FSM
// events and never crash the controller.
type ProtocolError struct {
	Code      WireCode
	Dialect   string // ptmp, ptp, qsig
	Operation string // the ROSE operation carrying the error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Dialect, e.Operation, e.Code)
}

// NewProtocolError builds a ProtocolError for the given dialect/operation.
func NewProtocolError(dialect, operation string, code WireCode) *ProtocolError {
	return &ProtocolError{Code: code, Dialect: dialect, Operation: operation}
}

// ResourceExhaustedError reports linkage/reference/record id space
// exhaustion. The allocator returns a sentinel and the caller propagates
// this as a ROSE OutgoingCCBSQueueFull (or Q.SIG LongTermRejection); the
// record is never created.
type ResourceExhaustedError struct {
	Space string // "linkage_id", "reference_id", or "record_id"
	Limit int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("%s space exhausted (limit %d)", e.Space, e.Limit)
}

// NewResourceExhaustedError builds a ResourceExhaustedError for the named
// id space.
func NewResourceExhaustedError(space string, limit int) *ResourceExhaustedError {
	return &ResourceExhaustedError{Space: space, Limit: limit}
}

// InvariantViolation reports a sanity-check failure detected at
// self-destruct: a supervision/recall/retention timer still running, or a
// still-pending T_CCBS1/T_ACTIVATE APDU. The offending timer or APDU is
// force-cleared by the caller after this is logged; construction of this
// type is gated by the ccsanity build tag via Sanity().
type InvariantViolation struct {
	RecordID uint16
	Detail   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation on record %d: %s", e.RecordID, e.Detail)
}

// SpuriousEvent marks an event delivered to a (state, event) cell with no
// defined transition. The FSM dispatcher logs it at DEBUG, leaves the
// record unchanged, and returns it so the caller can classify the event as
// spurious (see IsSpuriousEvent). An unknown dialect/role
// combination is not a SpuriousEvent — it destroys the record immediately
// as a "no FSM" cancel (see NoFSM).
type SpuriousEvent struct {
	State string
	Event string
}

func (e *SpuriousEvent) Error() string {
	return fmt.Sprintf("spurious event %s in state %s", e.Event, e.State)
}

// NewSpuriousEvent builds a SpuriousEvent for the given state/event pair.
func NewSpuriousEvent(state, event string) *SpuriousEvent {
	return &SpuriousEvent{State: state, Event: event}
}

// NoFSM marks an unknown dialect/role combination. The record has no
// applicable FSM table and is destroyed immediately, treated like a
// cancel.
type NoFSM struct {
	Dialect string
	Role    string
}

func (e *NoFSM) Error() string {
	return fmt.Sprintf("no FSM for dialect %q role %q", e.Dialect, e.Role)
}

// ============================================================================
// Error type checking helpers
// ============================================================================

// IsProtocolError returns true if err is a ProtocolError.
func IsProtocolError(err error) bool {
	_, ok := err.(*ProtocolError)
	return ok
}

// IsResourceExhausted returns true if err is a ResourceExhaustedError.
func IsResourceExhausted(err error) bool {
	_, ok := err.(*ResourceExhaustedError)
	return ok
}

// IsInvariantViolation returns true if err is an InvariantViolation.
func IsInvariantViolation(err error) bool {
	_, ok := err.(*InvariantViolation)
	return ok
}

// IsSpuriousEvent returns true if err is a SpuriousEvent.
func IsSpuriousEvent(err error) bool {
	_, ok := err.(*SpuriousEvent)
	return ok
}

// IsNoFSM returns true if err is a NoFSM.
func IsNoFSM(err error) bool {
	_, ok := err.(*NoFSM)
	return ok
}
