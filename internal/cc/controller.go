// Package cc wires the party/rose/apdu/record/timer/fsm/subcommand
// packages together behind the Controller, the public API the
// application and the Q.931 layer drive. One Controller runs per
// D-channel.
package cc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tormodfh/pricc/internal/audit"
	"github.com/tormodfh/pricc/internal/cc/apdu"
	"github.com/tormodfh/pricc/internal/cc/fsm"
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
	"github.com/tormodfh/pricc/internal/cc/timer"
	"github.com/tormodfh/pricc/internal/ccerrors"
	"github.com/tormodfh/pricc/internal/logger"
	"github.com/tormodfh/pricc/internal/metrics"
)

// Config is the controller's static, per-D-channel configuration.
type Config struct {
	ChannelID             string
	Dialect               record.Dialect
	IsNT                  bool // only NT-side BRI-PTMP may be an agent
	CCSupport             bool
	RecallMode            rose.RecallMode
	SignalingRetentionReq SignalingRetention
	SignalingRetentionRsp SignalingRetention
	Durations             timer.Durations
	DeflectionSupport     bool
	TransferSupport       bool
	MCIDSupport           bool
	IncludeCalledPartyIE  bool
}

// SignalingRetention is the Q.SIG link-retention negotiation policy.
type SignalingRetention int

const (
	RetentionReleaseWanted SignalingRetention = iota
	RetentionDemandRetain
	RetentionDontCare
)

// Controller is the CC supplementary-service controller for one
// D-channel: the record pool, the per-call APDU queues, and the wiring
// between the host contracts and the FSM engine.
type Controller struct {
	cfg     Config
	pool    *record.Pool
	queues  map[uint16]*apdu.Queue
	deps    *fsm.Deps
	emitter *subcommand.Emitter
	metrics *metrics.Metrics
	audit   *audit.Store
}

// New builds a Controller bound to the given host contracts.
func New(cfg Config, sink q931.Sink, sched q931.Scheduler, subSink q931.SubcommandSink) *Controller {
	pool := record.NewPool()
	queues := map[uint16]*apdu.Queue{}
	emitter := subcommand.New(cfg.ChannelID, subSink)

	ctrl := &Controller{cfg: cfg, pool: pool, queues: queues, emitter: emitter}
	ctrl.deps = &fsm.Deps{
		Sink:      sink,
		Scheduler: sched,
		Emitter:   emitter,
		Durations: cfg.Durations,
		QueueOf: func(r *record.Record) *apdu.Queue {
			return ctrl.queueFor(r.RecordID)
		},
		DummyQueueOf: func(r *record.Record) *apdu.Queue {
			return ctrl.queueFor(0)
		},
	}
	return ctrl
}

// SetMetrics attaches a metrics sink. A nil Controller.metrics (the
// default) makes every observation call a no-op, so this is optional.
func (c *Controller) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// SetAuditStore attaches the append-only outcome log. A nil store (the
// default) means terminal outcomes are simply not recorded.
func (c *Controller) SetAuditStore(s *audit.Store) {
	c.audit = s
}

func (c *Controller) queueFor(recordID uint16) *apdu.Queue {
	q, ok := c.queues[recordID]
	if !ok {
		q = apdu.New()
		c.queues[recordID] = q
	}
	return q
}

func (c *Controller) dispatch(ctx context.Context, r *record.Record, ev fsm.Event) error {
	lc := logger.NewLogContext(c.cfg.ChannelID).
		WithEvent(r.Dialect.String(), ev.String()).
		WithRecord(r.RecordID).
		WithCorrelation(uuid.NewString())
	ctx = logger.WithContext(ctx, lc)

	err := fsm.Dispatch(ctx, c.deps, r, ev)

	outcome := metrics.OutcomeHandled
	if ccerrors.IsSpuriousEvent(err) {
		outcome = metrics.OutcomeSpurious
	}
	c.metrics.ObserveDispatch(r.Dialect.String(), roleLabel(r.IsAgent), ev.String(), outcome)

	if r.FSMComplete {
		c.pool.Remove(r)
		delete(c.queues, r.RecordID)
		c.metrics.ObserveErase(r.Dialect.String(), ev.String())
		c.metrics.ObserveLifetime(r.Dialect.String(), time.Since(r.CreatedAt))
		c.metrics.SetActiveRecords(r.Dialect.String(), float64(c.pool.Len()))
		c.recordOutcome(r, ev)
	}
	return err
}

// recordOutcome appends the terminal outcome to the audit store, if one
// is attached. Done in a detached goroutine so a slow or unreachable
// database never blocks FSM dispatch.
func (c *Controller) recordOutcome(r *record.Record, ev fsm.Event) {
	if c.audit == nil {
		return
	}
	o := audit.Outcome{
		ChannelID:      c.cfg.ChannelID,
		RecordID:       r.RecordID,
		Dialect:        r.Dialect.String(),
		IsAgent:        r.IsAgent,
		IsCCNR:         r.IsCCNR,
		TerminalReason: ev.String(),
		CreatedAt:      r.CreatedAt,
		ClosedAt:       time.Now(),
	}
	go func() {
		if err := c.audit.Record(context.Background(), o); err != nil {
			logger.Error("audit record write failed", "channel_id", o.ChannelID, "record_id", o.RecordID, "error", err)
		}
	}()
}

func roleLabel(isAgent bool) string {
	if isAgent {
		return "agent"
	}
	return "monitor"
}

// CCAvailable offers CC on a call being set up. Agent only, and only on
// dialect-appropriate roles (only NT-side BRI-PTMP may be a PTMP agent).
func (c *Controller) CCAvailable(ctx context.Context, call q931.Call, a, b party.Identity, savedIEs rose.SavedIEs, bearerCap []byte) (uint16, error) {
	if !c.cfg.CCSupport {
		return 0, ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), "cc_available", ccerrors.WireNotSubscribed)
	}
	if c.cfg.Dialect == record.DialectPTMP && !c.cfg.IsNT {
		return 0, ccerrors.NewProtocolError("ptmp", "cc_available", ccerrors.WireNotSubscribed)
	}

	id, err := c.pool.AllocateRecordID()
	if err != nil {
		return 0, err
	}
	linkageID := record.Invalid
	if c.cfg.Dialect == record.DialectPTMP {
		linkageID, err = c.pool.AllocateLinkageID()
		if err != nil {
			return 0, err
		}
	}

	r := record.NewForOffer(id, c.cfg.Dialect, false, call, a, b, savedIEs, bearerCap)
	r.PTMP.LinkageID = linkageID
	r.Option.RecallMode = c.cfg.RecallMode
	c.pool.Insert(r)

	c.emitter.Available(id)
	logger.InfoCtx(ctx, "cc available offered", logger.RecordID(id), logger.Dialect(dialectName(c.cfg.Dialect)))
	return id, nil
}

// CCReq asks the monitor to activate. Never returns the outcome
// synchronously; the answer arrives as a CC_REQ_RSP subcommand.
func (c *Controller) CCReq(ctx context.Context, ccID uint16) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), "cc_req", ccerrors.WireInvalidReference)
	}
	return c.dispatch(ctx, r, fsm.EvCCRequest)
}

// CCReqRsp is the agent's answer to the peer's cc-request.
func (c *Controller) CCReqRsp(ctx context.Context, ccID uint16, accept bool) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), "cc_req_rsp", ccerrors.WireInvalidReference)
	}
	if accept {
		if c.cfg.Dialect == record.DialectPTMP {
			refID, err := c.pool.AllocateReferenceID()
			if err != nil {
				return err
			}
			r.PTMP.ReferenceID = refID
		}
		return c.dispatch(ctx, r, fsm.EvCCRequestAccept)
	}
	return c.dispatch(ctx, r, fsm.EvCCRequestFail)
}

// CCRemoteUserFree reports that the monitored party is free.
func (c *Controller) CCRemoteUserFree(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvRemoteUserFree)
}

// CCBFree reports that the B channel is free (PTMP/PTP agent B_FREE
// stimulus).
func (c *Controller) CCBFree(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvBFree)
}

// CCStopAlerting reports that the recalled user stopped alerting.
func (c *Controller) CCStopAlerting(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvStopAlerting)
}

// CCStatusReq asks the PTMP agent to poll party A's status.
func (c *Controller) CCStatusReq(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvAStatus)
}

// CCStatus feeds one poll response for an outstanding CCStatusReq: busy
// true/false maps to EvABusy/EvAFree. The conclusive free/busy outcome for
// the round is reported back through Emitter.StatusReqRsp once T_CCBS1
// fires and the accumulator is promoted.
func (c *Controller) CCStatus(ctx context.Context, ccID uint16, busy bool) error {
	if busy {
		return c.eventByID(ctx, ccID, fsm.EvABusy)
	}
	return c.eventByID(ctx, ccID, fsm.EvAFree)
}

// CCCall initiates the recall using the saved bearer and parties. Monitor
// only.
func (c *Controller) CCCall(ctx context.Context, ccID uint16, call q931.Call) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), "cc_call", ccerrors.WireInvalidReference)
	}
	if r.IsAgent {
		return &ccerrors.InvariantViolation{RecordID: r.RecordID, Detail: "cc_call issued on agent-side record"}
	}
	r.Signaling = call
	return c.dispatch(ctx, r, fsm.EvRecall)
}

// CCCancel unilaterally tears down a CC interaction. cc_id becomes
// invalid immediately; a second call with the same id is idempotent — it
// returns an error and causes no further wire traffic.
func (c *Controller) CCCancel(ctx context.Context, ccID uint16) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), "cc_cancel", ccerrors.WireInvalidReference)
	}
	return c.dispatch(ctx, r, fsm.EvCancel)
}

func (c *Controller) eventByID(ctx context.Context, ccID uint16, ev fsm.Event) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError(dialectName(c.cfg.Dialect), ev.String(), ccerrors.WireInvalidReference)
	}
	return c.dispatch(ctx, r, ev)
}

// Pool exposes the record pool for read-only interrogation (admin API,
// CCBSInterrogate/CCNRInterrogate handlers).
func (c *Controller) Pool() *record.Pool {
	return c.pool
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
