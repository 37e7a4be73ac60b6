package fsm

import (
	"context"
	"sync/atomic"

	"github.com/tormodfh/pricc/internal/cc/apdu"
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
	"github.com/tormodfh/pricc/internal/cc/timer"
	"github.com/tormodfh/pricc/internal/logger"
)

// invokeIDCounter allocates the bookkeeping invoke ids recorded on
// PTMP.TCCBS1InvokeID and Response.InvokeID. It is not the wire invoke id
// a real ROSE stack would negotiate (that is the APDU layer's concern);
// it only needs to be nonzero while outstanding, for the self-destruct
// sanity check.
var invokeIDCounter int32

func nextInvokeID() int32 {
	return atomic.AddInt32(&invokeIDCounter, 1)
}

// Deps bundles the collaborators every action needs: the host contracts,
// the APDU queues, the subcommand emitter, and the resolved timer
// durations. One Deps is shared by every record on a controller (one
// controller per D-channel).
type Deps struct {
	Sink         q931.Sink
	Scheduler    q931.Scheduler
	Emitter      *subcommand.Emitter
	Durations    timer.Durations
	QueueOf      func(*record.Record) *apdu.Queue
	DummyQueueOf func(*record.Record) *apdu.Queue
}

// ActionContext is passed to every handler invocation; it carries the
// event being dispatched plus everything an action needs to mutate the
// record and talk to the host environment.
type ActionContext struct {
	Ctx    context.Context
	Deps   *Deps
	Record *record.Record
	Event  Event
}

// disassociateSignaling clears the record's backlink to its Q.931 call
// leg (invariant 3: the backlink must be cleared on disassociation).
func (c *ActionContext) disassociateSignaling() {
	c.Record.DisassociateSignaling()
}

// armRetention arms T_RETENTION, cancelling any previously armed handle
// for that field first — timer fields are mutually exclusive with
// themselves.
func (c *ActionContext) armRetention() {
	if c.Record.TRetention != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TRetention)
	}
	c.Record.TRetention = c.Deps.Scheduler.Schedule(c.Ctx, c.Deps.Durations.TRetentionMs, c.fireRetention)
}

func (c *ActionContext) fireRetention(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutTRetention)
}

func (c *ActionContext) stopRetention() {
	if c.Record.TRetention != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TRetention)
		c.Record.TRetention = 0
	}
}

func (c *ActionContext) armSupervision() {
	if c.Record.TSupervision != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TSupervision)
	}
	ms := timer.SupervisionDuration(c.Deps.Durations, dialectToTimerDialect(c.Record.Dialect), c.Record.IsCCNR, c.Record.IsAgent)
	c.Record.TSupervision = c.Deps.Scheduler.Schedule(c.Ctx, ms, c.fireSupervision)
}

func (c *ActionContext) fireSupervision(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutTSupervision)
}

func (c *ActionContext) stopSupervision() {
	if c.Record.TSupervision != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TSupervision)
		c.Record.TSupervision = 0
	}
}

func (c *ActionContext) armRecall() {
	if c.Record.TRecall != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TRecall)
	}
	ms := timer.RecallDuration(c.Deps.Durations, dialectToTimerDialect(c.Record.Dialect))
	c.Record.TRecall = c.Deps.Scheduler.Schedule(c.Ctx, ms, c.fireRecall)
}

func (c *ActionContext) fireRecall(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutTRecall)
}

func (c *ActionContext) stopRecall() {
	if c.Record.TRecall != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TRecall)
		c.Record.TRecall = 0
	}
}

// armTActivate arms the monitor-side deadline to receive a response to our
// cc-request invoke.
func (c *ActionContext) armTActivate() {
	if c.Record.TActivate != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TActivate)
	}
	c.Record.TActivate = c.Deps.Scheduler.Schedule(c.Ctx, c.Deps.Durations.TResponseMs, c.fireTActivate)
}

func (c *ActionContext) fireTActivate(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutTActivate)
}

func (c *ActionContext) stopTActivate() {
	if c.Record.TActivate != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TActivate)
		c.Record.TActivate = 0
	}
}

// armTCCBS1 starts one CCBSStatusRequest poll round: the PTMP agent's
// deadline for the bus to answer before the raw accumulator is promoted.
func (c *ActionContext) armTCCBS1() {
	if c.Record.PTMP.TCCBS1Timer != 0 {
		c.Deps.Scheduler.Cancel(c.Record.PTMP.TCCBS1Timer)
	}
	c.Record.PTMP.TCCBS1InvokeID = nextInvokeID()
	c.Record.PTMP.TCCBS1Timer = c.Deps.Scheduler.Schedule(c.Ctx, c.Deps.Durations.TCCBS1Ms, c.fireTCCBS1)
}

func (c *ActionContext) fireTCCBS1(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutTCCBS1)
}

func (c *ActionContext) stopTCCBS1() {
	if c.Record.PTMP.TCCBS1Timer != 0 {
		c.Deps.Scheduler.Cancel(c.Record.PTMP.TCCBS1Timer)
		c.Record.PTMP.TCCBS1Timer = 0
	}
	c.Record.PTMP.TCCBS1InvokeID = 0
}

// armExtendedTCCBS1 runs alongside T_CCBS1 with the fixed guard; while it
// is still armed, each busy answer observed mid-round is also passed up
// immediately instead of waiting for the round to conclude.
func (c *ActionContext) armExtendedTCCBS1() {
	if c.Record.PTMP.ExtendedTCCBS1 != 0 {
		c.Deps.Scheduler.Cancel(c.Record.PTMP.ExtendedTCCBS1)
	}
	ms := c.Deps.Durations.TCCBS1Ms + timer.ExtendedTCCBS1GuardMs
	c.Record.PTMP.ExtendedTCCBS1 = c.Deps.Scheduler.Schedule(c.Ctx, ms, c.fireExtendedTCCBS1)
}

func (c *ActionContext) fireExtendedTCCBS1(ctx context.Context) {
	Dispatch(ctx, c.Deps, c.Record, EvTimeoutExtendedTCCBS1)
}

func (c *ActionContext) stopExtendedTCCBS1() {
	if c.Record.PTMP.ExtendedTCCBS1 != 0 {
		c.Deps.Scheduler.Cancel(c.Record.PTMP.ExtendedTCCBS1)
		c.Record.PTMP.ExtendedTCCBS1 = 0
	}
}

// armTIndirect defers ev past the current event tail: it fires with zero
// delay, observed once control returns to the event loop. Used where a
// subcommand pass must precede self-destruct but self-destruct cannot
// happen in the same handler.
func (c *ActionContext) armTIndirect(ev Event) {
	if c.Record.TIndirect != 0 {
		c.Deps.Scheduler.Cancel(c.Record.TIndirect)
	}
	r := c.Record
	deps := c.Deps
	c.Record.TIndirect = c.Deps.Scheduler.Schedule(c.Ctx, 0, func(ctx context.Context) {
		r.TIndirect = 0
		Dispatch(ctx, deps, r, ev)
	})
}

func dialectToTimerDialect(d record.Dialect) timer.Dialect {
	switch d {
	case record.DialectPTMP:
		return timer.DialectPTMP
	case record.DialectPTP:
		return timer.DialectPTP
	default:
		return timer.DialectQSIG
	}
}

// releaseLinkageID clears the PTMP linkage id, making the record no longer
// findable by linkage (invariant 1).
func (c *ActionContext) releaseLinkageID() {
	c.Record.PTMP.LinkageID = record.Invalid
}

// markSelfDestruct sets fsm_complete; the dispatcher destroys the record
// after the current event returns. Ordering is the caller's
// responsibility: stop timers first, and only pair with a synchronous
// subcommand pass in the same event.
func (c *ActionContext) markSelfDestruct() {
	c.Record.FSMComplete = true
}

func (c *ActionContext) queue() *apdu.Queue {
	return c.Deps.QueueOf(c.Record)
}

// qsigNFEHeader is the fixed NFE envelope every Q.SIG CC invoke this
// controller originates carries: both ends are always PINXes, never the
// terminating exchange.
var qsigNFEHeader = rose.NFEHeader{SourceEntity: "endPINX", DestinationEntity: "endPINX"}

// sendErase queues the dialect-appropriate cleanup invoke (CCBSErase for
// PTMP, ccCancel for Q.SIG; ETSI PTP has no such invoke, its dedicated CIS
// call teardown signals cancellation on its own). Used on every erase
// path.
func (c *ActionContext) sendErase(reason rose.EraseReason) {
	switch c.Record.Dialect {
	case record.DialectPTMP:
		payload := rose.EncodeCCBSErase(rose.CCBSEraseFields{
			ReferenceID: c.Record.PTMP.ReferenceID,
			Reason:      reason,
		})
		c.queue().Append(q931.Facility, payload, nil)
		logger.DebugCtx(c.Ctx, "sending CCBSErase", logger.Operation(rose.OpCCBSErase), logger.Reason(int(reason)))
	case record.DialectQSIG:
		payload := rose.EncodeCcCancel(rose.QSIGEnvelopeFields{
			NFE:            qsigNFEHeader,
			Interpretation: rose.InterpretationDiscardUnrecognised,
		})
		c.queue().Append(q931.Facility, payload, nil)
		logger.DebugCtx(c.Ctx, "sending ccCancel", logger.Operation(rose.OpCcCancel), logger.Reason(int(reason)))
	}
}

// sendEraseCallLinkageID queues an EraseCallLinkageID invoke, used when
// T_RETENTION expires on the offering side.
func (c *ActionContext) sendEraseCallLinkageID() {
	payload := rose.EncodeEraseCallLinkageID(rose.LinkageFields{LinkageID: c.Record.PTMP.LinkageID})
	c.queue().Append(q931.Facility, payload, nil)
	logger.DebugCtx(c.Ctx, "sending EraseCallLinkageID", logger.Operation(rose.OpEraseCallLinkageID))
}

// passReq emits exactly one CC_REQ subcommand: the upper layer decides
// whether to accept the peer's cc-request via cc_req_rsp.
func (c *ActionContext) passReq() {
	c.Deps.Emitter.Req(c.Record.RecordID)
}

// accumulatePartyAStatus folds one CCBSStatusRequest result into the raw
// accumulator. While EXTENDED_T_CCBS1 is still running, a busy answer is
// also passed up immediately so the application does not have to wait
// for the round to conclude.
func (c *ActionContext) accumulatePartyAStatus(result record.PartyAStatus) {
	c.Record.PTMP.PartyAStatusAcc = c.Record.PTMP.PartyAStatusAcc.Accumulate(result)
	if result == record.PartyABusy && c.Record.PTMP.ExtendedTCCBS1 != 0 {
		c.Deps.Emitter.Status(c.Record.RecordID, true)
	}
}

// passCancel emits exactly one CC_CANCEL subcommand. Every cancel path —
// self-initiated, peer-initiated, or timed out — goes through here so the
// "exactly one CC_CANCEL per attempt" property holds.
func (c *ActionContext) passCancel() {
	c.Deps.Emitter.Cancel(c.Record.RecordID, c.Record.IsAgent)
}

// passReqRsp emits exactly one CC_REQ_RSP subcommand per activation
// attempt.
func (c *ActionContext) passReqRsp(status subcommand.ReqRspStatus, failCode int) {
	c.Deps.Emitter.ReqRsp(c.Record.RecordID, status, failCode)
}

// eraseAndDestroy is the common tail of every erase path: send the
// dialect-appropriate cleanup message, stop all timers, pass CC_CANCEL,
// and mark self-destruct — satisfying the ordering rule that timers are
// stopped before self-destruct.
func (c *ActionContext) eraseAndDestroy(reason rose.EraseReason) {
	c.sendErase(reason)
	c.stopRetention()
	c.stopSupervision()
	c.stopRecall()
	c.stopTActivate()
	c.stopTCCBS1()
	c.stopExtendedTCCBS1()
	c.passCancel()
	c.markSelfDestruct()
}
