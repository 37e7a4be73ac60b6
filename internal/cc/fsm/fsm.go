// Package fsm is the dispatch engine: it selects a (dialect, role) table,
// looks up the handler for (state, event), runs it, and evaluates
// fsm_complete. This is the largest single component — the six dialect
// FSM tables live alongside the engine in this package, one file per
// table.
package fsm

import (
	"context"

	"github.com/tormodfh/pricc/internal/ccerrors"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/logger"
)

// Event is one of the events shared across every dialect table (not
// every event applies to every state — a handler simply isn't
// registered for combinations that don't apply).
type Event int

const (
	EvAvailable Event = iota
	EvMsgAlerting
	EvMsgDisconnect
	EvMsgRelease
	EvMsgReleaseComplete
	EvInternalClearing

	EvCCRequest
	EvCCRequestAccept
	EvCCRequestFail

	EvRemoteUserFree
	EvBFree
	EvStopAlerting

	EvAStatus
	EvAFree
	EvABusy

	EvSuspend
	EvResume
	EvRecall

	EvLinkCancel
	EvCancel
	EvSignalingGone
	EvHangupSignaling

	EvTimeoutTRetention
	EvTimeoutTSupervision
	EvTimeoutTRecall
	EvTimeoutTActivate
	EvTimeoutTCCBS1
	EvTimeoutExtendedTCCBS1
)

func (e Event) String() string {
	switch e {
	case EvAvailable:
		return "AVAILABLE"
	case EvMsgAlerting:
		return "MSG_ALERTING"
	case EvMsgDisconnect:
		return "MSG_DISCONNECT"
	case EvMsgRelease:
		return "MSG_RELEASE"
	case EvMsgReleaseComplete:
		return "MSG_RELEASE_COMPLETE"
	case EvInternalClearing:
		return "INTERNAL_CLEARING"
	case EvCCRequest:
		return "CC_REQUEST"
	case EvCCRequestAccept:
		return "CC_REQUEST_ACCEPT"
	case EvCCRequestFail:
		return "CC_REQUEST_FAIL"
	case EvRemoteUserFree:
		return "REMOTE_USER_FREE"
	case EvBFree:
		return "B_FREE"
	case EvStopAlerting:
		return "STOP_ALERTING"
	case EvAStatus:
		return "A_STATUS"
	case EvAFree:
		return "A_FREE"
	case EvABusy:
		return "A_BUSY"
	case EvSuspend:
		return "SUSPEND"
	case EvResume:
		return "RESUME"
	case EvRecall:
		return "RECALL"
	case EvLinkCancel:
		return "LINK_CANCEL"
	case EvCancel:
		return "CANCEL"
	case EvSignalingGone:
		return "SIGNALING_GONE"
	case EvHangupSignaling:
		return "HANGUP_SIGNALING"
	case EvTimeoutTRetention:
		return "TIMEOUT_T_RETENTION"
	case EvTimeoutTSupervision:
		return "TIMEOUT_T_SUPERVISION"
	case EvTimeoutTRecall:
		return "TIMEOUT_T_RECALL"
	case EvTimeoutTActivate:
		return "TIMEOUT_T_ACTIVATE"
	case EvTimeoutTCCBS1:
		return "TIMEOUT_T_CCBS1"
	case EvTimeoutExtendedTCCBS1:
		return "TIMEOUT_EXTENDED_T_CCBS1"
	default:
		return "EV_UNKNOWN"
	}
}

// Role distinguishes the agent/monitor side of a dialect table.
type Role int

const (
	RoleAgent Role = iota
	RoleMonitor
)

// Handler is a pure transition function: it executes ordered actions
// against ctx and returns the next state (which may equal the current
// one). A handler must not call Dispatch recursively; deferred effects go
// through T_INDIRECT.
type Handler func(ctx *ActionContext) record.State

// stateTable maps event to handler for one state.
type stateTable map[Event]Handler

// Table maps state to its stateTable for one (dialect, role) pair.
type Table map[record.State]stateTable

// tableKey identifies one of the six dialect tables.
type tableKey struct {
	dialect record.Dialect
	role    Role
}

var tables = map[tableKey]Table{}

// register installs a table for (dialect, role). Called from each
// dialect's init().
func register(dialect record.Dialect, role Role, t Table) {
	tables[tableKey{dialect, role}] = t
}

func roleOf(r *record.Record) Role {
	if r.IsAgent {
		return RoleAgent
	}
	return RoleMonitor
}

// Dispatch selects the (dialect, role) table for r, looks up the handler
// for (r.State, event), runs it, and evaluates fsm_complete. Unknown
// (state, event) pairs are no-ops: the record is left unchanged, the event
// is logged at DEBUG, and a *ccerrors.SpuriousEvent is returned so the
// caller can tell it apart from a handled event. An unmapped (dialect, role) pair
// destroys the record immediately, treated like a cancel, and returns
// ccerrors.NoFSM.
func Dispatch(ctx context.Context, deps *Deps, r *record.Record, event Event) error {
	role := roleOf(r)
	table, ok := tables[tableKey{r.Dialect, role}]
	if !ok {
		r.FSMComplete = true
		return &ccerrors.NoFSM{Dialect: dialectName(r.Dialect), Role: roleName(role)}
	}

	st, ok := table[r.State]
	if !ok {
		logger.DebugCtx(ctx, "fsm dispatch: no state table for state",
			logger.State(r.State.String()), logger.Event(event.String()))
		return nil
	}

	handler, ok := st[event]
	if !ok {
		logger.DebugCtx(ctx, "fsm dispatch: spurious event",
			logger.State(r.State.String()), logger.Event(event.String()))
		return ccerrors.NewSpuriousEvent(r.State.String(), event.String())
	}

	prevState := r.State
	actx := &ActionContext{Ctx: ctx, Deps: deps, Record: r, Event: event}
	next := handler(actx)
	r.State = next

	if prevState == next {
		logger.DebugCtx(ctx, "fsm dispatch", logger.Event(event.String()), logger.State(prevState.String()), logger.NextState("$"))
	} else {
		logger.DebugCtx(ctx, "fsm dispatch", logger.Event(event.String()), logger.State(prevState.String()), logger.NextState(next.String()))
	}

	if r.FSMComplete {
		logger.InfoCtx(ctx, "cc record reaching self-destruct", logger.RecordID(r.RecordID))
		if v := ccerrors.Sanity(r.RecordID, "check"); v != nil {
			assertTimersStopped(ctx, r)
		}
	}

	return nil
}

func assertTimersStopped(ctx context.Context, r *record.Record) {
	if r.TRetention != 0 || r.TSupervision != 0 || r.TRecall != 0 || r.TActivate != 0 || r.TIndirect != 0 {
		logger.ErrorCtx(ctx, "invariant violation: timer still armed at self-destruct", logger.RecordID(r.RecordID))
		r.TRetention = 0
		r.TSupervision = 0
		r.TRecall = 0
		r.TActivate = 0
		r.TIndirect = 0
	}
	if r.PTMP.TCCBS1InvokeID != 0 || r.PTMP.TCCBS1Timer != 0 {
		logger.ErrorCtx(ctx, "invariant violation: T_CCBS1 invoke still pending at self-destruct", logger.RecordID(r.RecordID))
		r.PTMP.TCCBS1InvokeID = 0
		r.PTMP.TCCBS1Timer = 0
	}
	if r.PTMP.ExtendedTCCBS1 != 0 {
		logger.ErrorCtx(ctx, "invariant violation: EXTENDED_T_CCBS1 still armed at self-destruct", logger.RecordID(r.RecordID))
		r.PTMP.ExtendedTCCBS1 = 0
	}
}

func dialectName(d record.Dialect) string {
	switch d {
	case record.DialectPTMP:
		return "ptmp"
	case record.DialectPTP:
		return "ptp"
	case record.DialectQSIG:
		return "qsig"
	default:
		return "unknown"
	}
}

func roleName(r Role) string {
	if r == RoleAgent {
		return "agent"
	}
	return "monitor"
}
