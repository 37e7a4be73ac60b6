package logger

import (
	"log/slog"
)

// Standard field keys for structured logging across the CC controller.
// Use these keys consistently so log lines aggregate cleanly across the
// six dialect FSM tables.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID       = "trace_id"       // OpenTelemetry trace ID for request correlation
	KeySpanID        = "span_id"        // OpenTelemetry span ID for operation tracking
	KeyCorrelationID = "correlation_id" // groups every log line for one external event (one inbound invoke, one timer fire)

	// ========================================================================
	// Dialect & Dispatch
	// ========================================================================
	KeyDialect   = "dialect"    // ptmp, ptp, qsig
	KeyRole      = "role"       // agent, monitor
	KeyEvent     = "event"      // FSM event name
	KeyState     = "state"      // FSM state name (before dispatch)
	KeyNextState = "next_state" // FSM state name (after dispatch), "$" if unchanged
	KeyAction    = "action"     // canonical action name being executed
	KeyChannelID = "channel_id" // D-channel identifier

	// ========================================================================
	// CC Record Identity
	// ========================================================================
	KeyRecordID    = "record_id"    // CC record id (stable for the record's life)
	KeyLinkageID   = "linkage_id"   // PTMP linkage id, 0..127 or invalid
	KeyReferenceID = "reference_id" // PTMP reference id, 0..127 or invalid
	KeyIsCCNR      = "is_ccnr"      // true selects CCNR timer table over CCBS
	KeyIsAgent     = "is_agent"     // true if this end performs the recall

	// ========================================================================
	// Party Addressing
	// ========================================================================
	KeyPartyANumber = "party_a_number" // original caller digits
	KeyPartyBNumber = "party_b_number" // original called digits
	KeyPartyAStatus = "party_a_status" // invalid, free, busy

	// ========================================================================
	// ROSE / Wire Operations
	// ========================================================================
	KeyOperation = "rose_operation" // ROSE operation name (CCBSRequest, ccCancel, ...)
	KeyInvokeID  = "invoke_id"      // ROSE invoke id
	KeyMsgType   = "msg_type"       // Q.931 message type carrying the APDU
	KeyReason    = "reason"         // protocol-level failure/erase reason code

	// ========================================================================
	// Timers
	// ========================================================================
	KeyTimerName = "timer"       // T_RETENTION, T_SUPERVISION, T_RECALL, ...
	KeyTimerMs   = "timer_ms"    // armed duration in milliseconds
	KeyPollCount = "poll_count"  // consecutive fruitless CCBSStatusRequest polls

	// ========================================================================
	// Subcommands
	// ========================================================================
	KeySubcommand = "subcommand" // subcommand kind passed to the application

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric error code
	KeySource     = "source"      // subsystem emitting the log line
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// CorrelationID returns a slog.Attr for the per-dispatch correlation id
func CorrelationID(id string) slog.Attr {
	return slog.String(KeyCorrelationID, id)
}

// Dialect returns a slog.Attr for the protocol dialect
func Dialect(d string) slog.Attr {
	return slog.String(KeyDialect, d)
}

// Role returns a slog.Attr for the agent/monitor role
func Role(r string) slog.Attr {
	return slog.String(KeyRole, r)
}

// Event returns a slog.Attr for the FSM event name
func Event(e string) slog.Attr {
	return slog.String(KeyEvent, e)
}

// State returns a slog.Attr for the FSM state name
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// NextState returns a slog.Attr for the post-dispatch state name
func NextState(s string) slog.Attr {
	return slog.String(KeyNextState, s)
}

// Action returns a slog.Attr for the canonical action name
func Action(a string) slog.Attr {
	return slog.String(KeyAction, a)
}

// ChannelID returns a slog.Attr for the D-channel identifier
func ChannelID(id string) slog.Attr {
	return slog.String(KeyChannelID, id)
}

// RecordID returns a slog.Attr for the CC record id
func RecordID(id uint16) slog.Attr {
	return slog.Uint64(KeyRecordID, uint64(id))
}

// LinkageID returns a slog.Attr for the PTMP linkage id
func LinkageID(id int) slog.Attr {
	return slog.Int(KeyLinkageID, id)
}

// ReferenceID returns a slog.Attr for the PTMP reference id
func ReferenceID(id int) slog.Attr {
	return slog.Int(KeyReferenceID, id)
}

// IsCCNR returns a slog.Attr indicating CCNR vs CCBS
func IsCCNR(v bool) slog.Attr {
	return slog.Bool(KeyIsCCNR, v)
}

// IsAgent returns a slog.Attr indicating agent vs monitor role
func IsAgent(v bool) slog.Attr {
	return slog.Bool(KeyIsAgent, v)
}

// PartyANumber returns a slog.Attr for the original caller's digits
func PartyANumber(digits string) slog.Attr {
	return slog.String(KeyPartyANumber, digits)
}

// PartyBNumber returns a slog.Attr for the original called party's digits
func PartyBNumber(digits string) slog.Attr {
	return slog.String(KeyPartyBNumber, digits)
}

// PartyAStatus returns a slog.Attr for the confirmed party-A status
func PartyAStatus(status string) slog.Attr {
	return slog.String(KeyPartyAStatus, status)
}

// Operation returns a slog.Attr for the ROSE operation name
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// InvokeID returns a slog.Attr for a ROSE invoke id
func InvokeID(id int32) slog.Attr {
	return slog.Int(KeyInvokeID, int(id))
}

// MsgType returns a slog.Attr for the Q.931 message type carrying an APDU
func MsgType(t string) slog.Attr {
	return slog.String(KeyMsgType, t)
}

// Reason returns a slog.Attr for a protocol-level reason code
func Reason(code int) slog.Attr {
	return slog.Int(KeyReason, code)
}

// TimerName returns a slog.Attr for a timer's symbolic name
func TimerName(name string) slog.Attr {
	return slog.String(KeyTimerName, name)
}

// TimerMs returns a slog.Attr for a timer's armed duration
func TimerMs(ms int) slog.Attr {
	return slog.Int(KeyTimerMs, ms)
}

// PollCount returns a slog.Attr for consecutive fruitless status polls
func PollCount(n int) slog.Attr {
	return slog.Int(KeyPollCount, n)
}

// Subcommand returns a slog.Attr for a subcommand kind
func Subcommand(kind string) slog.Attr {
	return slog.String(KeySubcommand, kind)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Source returns a slog.Attr for the subsystem emitting the log line
func Source(src string) slog.Attr {
	return slog.String(KeySource, src)
}
