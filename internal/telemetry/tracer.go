package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for FSM dispatch and ROSE operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Dialect / dispatch attributes
	// ========================================================================
	AttrDialect = "cc.dialect" // ptmp, ptp, qsig
	AttrRole    = "cc.role"    // agent, monitor
	AttrEvent   = "cc.event"   // FSM event name
	AttrState   = "cc.state"   // state before dispatch
	AttrNext    = "cc.next_state"
	AttrChannel = "cc.channel_id"

	// ========================================================================
	// Record identity attributes
	// ========================================================================
	AttrRecordID    = "cc.record_id"
	AttrLinkageID   = "cc.linkage_id"
	AttrReferenceID = "cc.reference_id"
	AttrIsCCNR      = "cc.is_ccnr"
	AttrIsAgent     = "cc.is_agent"

	// ========================================================================
	// ROSE / wire attributes
	// ========================================================================
	AttrOperation = "rose.operation"
	AttrInvokeID  = "rose.invoke_id"
	AttrMsgType   = "q931.msg_type"
	AttrReason    = "cc.reason"

	// ========================================================================
	// Timer attributes
	// ========================================================================
	AttrTimerName = "cc.timer"
	AttrTimerMs   = "cc.timer_ms"
)

// Span names for FSM and ROSE operations.
const (
	SpanFSMDispatch    = "fsm.dispatch"
	SpanFSMAction      = "fsm.action"
	SpanRoseEncode     = "rose.encode"
	SpanRoseDecode     = "rose.decode"
	SpanAPDUSend       = "apdu.send"
	SpanAPDUResponse   = "apdu.response"
	SpanTimerArm       = "timer.arm"
	SpanTimerFire      = "timer.fire"
	SpanRecordAllocate = "record.allocate"
	SpanRecordDestroy  = "record.destroy"
)

// Dialect returns an attribute for the protocol dialect.
func Dialect(d string) attribute.KeyValue {
	return attribute.String(AttrDialect, d)
}

// Role returns an attribute for the agent/monitor role.
func Role(r string) attribute.KeyValue {
	return attribute.String(AttrRole, r)
}

// Event returns an attribute for the FSM event name.
func Event(e string) attribute.KeyValue {
	return attribute.String(AttrEvent, e)
}

// State returns an attribute for the FSM state name.
func State(s string) attribute.KeyValue {
	return attribute.String(AttrState, s)
}

// NextState returns an attribute for the post-dispatch state name.
func NextState(s string) attribute.KeyValue {
	return attribute.String(AttrNext, s)
}

// ChannelID returns an attribute for the D-channel identifier.
func ChannelID(id string) attribute.KeyValue {
	return attribute.String(AttrChannel, id)
}

// RecordID returns an attribute for the CC record id.
func RecordID(id uint16) attribute.KeyValue {
	return attribute.Int64(AttrRecordID, int64(id))
}

// LinkageID returns an attribute for the PTMP linkage id.
func LinkageID(id int) attribute.KeyValue {
	return attribute.Int(AttrLinkageID, id)
}

// ReferenceID returns an attribute for the PTMP reference id.
func ReferenceID(id int) attribute.KeyValue {
	return attribute.Int(AttrReferenceID, id)
}

// IsCCNR returns an attribute indicating CCNR vs CCBS.
func IsCCNR(v bool) attribute.KeyValue {
	return attribute.Bool(AttrIsCCNR, v)
}

// IsAgent returns an attribute indicating agent vs monitor role.
func IsAgent(v bool) attribute.KeyValue {
	return attribute.Bool(AttrIsAgent, v)
}

// Operation returns an attribute for the ROSE operation name.
func Operation(name string) attribute.KeyValue {
	return attribute.String(AttrOperation, name)
}

// InvokeID returns an attribute for a ROSE invoke id.
func InvokeID(id int32) attribute.KeyValue {
	return attribute.Int64(AttrInvokeID, int64(id))
}

// MsgType returns an attribute for the Q.931 message type carrying an APDU.
func MsgType(t string) attribute.KeyValue {
	return attribute.String(AttrMsgType, t)
}

// Reason returns an attribute for a protocol-level reason code.
func Reason(code int) attribute.KeyValue {
	return attribute.Int(AttrReason, code)
}

// TimerName returns an attribute for a timer's symbolic name.
func TimerName(name string) attribute.KeyValue {
	return attribute.String(AttrTimerName, name)
}

// TimerMs returns an attribute for a timer's armed duration.
func TimerMs(ms int) attribute.KeyValue {
	return attribute.Int64(AttrTimerMs, int64(ms))
}

// StartDispatchSpan starts a span covering one pri_cc_event dispatch.
func StartDispatchSpan(ctx context.Context, dialect, role, event string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Dialect(dialect),
		Role(role),
		Event(event),
	}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanFSMDispatch, trace.WithAttributes(allAttrs...))
}

// StartActionSpan starts a span for a single canonical FSM action.
func StartActionSpan(ctx context.Context, action string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{attribute.String("cc.action", action)}, attrs...)
	return StartSpan(ctx, SpanFSMAction, trace.WithAttributes(allAttrs...))
}

// StartRoseSpan starts a span for encoding or decoding a ROSE operation.
func StartRoseSpan(ctx context.Context, spanName, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{Operation(operation)}, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}
