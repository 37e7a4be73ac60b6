// Package subcommand emits CC events to the application through the
// q931.SubcommandSink contract. This is component 8: event passthrough.
package subcommand

import "github.com/tormodfh/pricc/internal/cc/q931"

// Kind names the subcommand kinds the application receives.
type Kind string

const (
	KindAvailable      Kind = "CC_AVAILABLE"
	KindReq            Kind = "CC_REQ"
	KindReqRsp         Kind = "CC_REQ_RSP"
	KindCancel         Kind = "CC_CANCEL"
	KindStatus         Kind = "CC_STATUS"
	KindStatusReq      Kind = "CC_STATUS_REQ"
	KindStatusReqRsp   Kind = "CC_STATUS_REQ_RSP"
	KindBFree          Kind = "CC_B_FREE"
	KindRemoteUserFree Kind = "CC_REMOTE_USER_FREE"
	KindStopAlerting   Kind = "CC_STOP_ALERTING"
	KindCall           Kind = "CC_CALL"
)

// ReqRspStatus is the outcome carried by a CC_REQ_RSP subcommand.
type ReqRspStatus string

const (
	ReqRspSuccess ReqRspStatus = "success"
	ReqRspTimeout ReqRspStatus = "timeout"
	ReqRspError   ReqRspStatus = "error"
	ReqRspReject  ReqRspStatus = "reject"
)

// Emitter passes CC events up to the application through a
// q931.SubcommandSink, silently dropping events when the sink's batch is
// full — the next Q.931 dispatch flushes the batch regardless.
type Emitter struct {
	sink q931.SubcommandSink
	ctrl string
}

// New returns an Emitter bound to the given controller name and sink.
func New(ctrl string, sink q931.SubcommandSink) *Emitter {
	return &Emitter{sink: sink, ctrl: ctrl}
}

func (e *Emitter) emit(kind Kind, fields map[string]any) {
	slot := e.sink.AllocSlot(e.ctrl)
	if slot == nil {
		return
	}
	slot.Set(string(kind), fields)
}

// Available passes up a CC_AVAILABLE subcommand.
func (e *Emitter) Available(recordID uint16) {
	e.emit(KindAvailable, map[string]any{"record_id": recordID})
}

// Req passes up a CC_REQ subcommand: the application must decide whether
// to accept.
func (e *Emitter) Req(recordID uint16) {
	e.emit(KindReq, map[string]any{"record_id": recordID})
}

// ReqRsp passes up exactly one CC_REQ_RSP subcommand per activation
// attempt.
func (e *Emitter) ReqRsp(recordID uint16, status ReqRspStatus, failCode int) {
	e.emit(KindReqRsp, map[string]any{
		"record_id": recordID,
		"status":    string(status),
		"fail_code": failCode,
	})
}

// Cancel passes up exactly one CC_CANCEL subcommand, whether
// self-initiated, peer-initiated, or timed out.
func (e *Emitter) Cancel(recordID uint16, isAgent bool) {
	e.emit(KindCancel, map[string]any{"record_id": recordID, "is_agent": isAgent})
}

// Status passes up a CC_STATUS subcommand.
func (e *Emitter) Status(recordID uint16, busy bool) {
	e.emit(KindStatus, map[string]any{"record_id": recordID, "busy": busy})
}

// StatusReq passes up a CC_STATUS_REQ subcommand.
func (e *Emitter) StatusReq(recordID uint16) {
	e.emit(KindStatusReq, map[string]any{"record_id": recordID})
}

// StatusReqRsp passes up a CC_STATUS_REQ_RSP subcommand.
func (e *Emitter) StatusReqRsp(recordID uint16, busy bool) {
	e.emit(KindStatusReqRsp, map[string]any{"record_id": recordID, "busy": busy})
}

// BFree passes up a CC_B_FREE subcommand.
func (e *Emitter) BFree(recordID uint16) {
	e.emit(KindBFree, map[string]any{"record_id": recordID})
}

// RemoteUserFree passes up a CC_REMOTE_USER_FREE subcommand.
func (e *Emitter) RemoteUserFree(recordID uint16) {
	e.emit(KindRemoteUserFree, map[string]any{"record_id": recordID})
}

// StopAlerting passes up a CC_STOP_ALERTING subcommand.
func (e *Emitter) StopAlerting(recordID uint16) {
	e.emit(KindStopAlerting, map[string]any{"record_id": recordID})
}

// Call passes up a CC_CALL subcommand announcing the recall SETUP.
func (e *Emitter) Call(recordID uint16) {
	e.emit(KindCall, map[string]any{"record_id": recordID})
}
