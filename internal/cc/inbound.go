package cc

import (
	"context"

	"github.com/tormodfh/pricc/internal/cc/fsm"
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/ccerrors"
	"github.com/tormodfh/pricc/internal/logger"
)

// PTMPRequest handles an inbound ccbsRequest/ccnrRequest invoke on the
// broadcast D-channel. The record is found by linkage_id, since the
// requesting party has no reference_id yet.
func (c *Controller) PTMPRequest(ctx context.Context, linkageID int, isCCNR bool) error {
	r, ok := c.pool.ByLinkageID(linkageID)
	if !ok {
		return ccerrors.NewProtocolError("ptmp", "ptmp_request", ccerrors.WireInvalidReference)
	}
	r.IsCCNR = isCCNR
	return c.dispatch(ctx, r, fsm.EvCCRequest)
}

// PTPRequest handles an inbound CCBS_T_REQUEST/CCNR_T_REQUEST invoke,
// matched by the saved addressing information since point-to-point has
// no linkage_id concept.
func (c *Controller) PTPRequest(ctx context.Context, candidateA, candidateB party.Address, savedIEs rose.SavedIEs, isCCNR bool) error {
	r, ok := c.pool.ByAddressing(candidateA, candidateB, savedIEs)
	if !ok {
		return ccerrors.NewProtocolError("ptp", "ptp_request", ccerrors.WireInvalidReference)
	}
	r.IsCCNR = isCCNR
	return c.dispatch(ctx, r, fsm.EvCCRequest)
}

// QSIGRequest handles an inbound ccbsRequest/ccnrRequest carried on a CIS
// SETUP. The record is created fresh by the addressing match performed
// by the host's routing layer before this is called; here it is looked
// up by record_id already assigned to that SETUP's dialog.
func (c *Controller) QSIGRequest(ctx context.Context, ccID uint16, isCCNR bool) error {
	r, ok := c.pool.ByRecordID(ccID)
	if !ok {
		return ccerrors.NewProtocolError("qsig", "qsig_request", ccerrors.WireInvalidReference)
	}
	r.IsCCNR = isCCNR
	return c.dispatch(ctx, r, fsm.EvCCRequest)
}

// QSIGCancel handles an inbound ccCancel invoke.
func (c *Controller) QSIGCancel(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvCancel)
}

// QSIGExecPossible handles an inbound ccExecPossible invoke, the Q.SIG
// equivalent of CCBS_T_REMOTE_USER_FREE / remoteUserFree.
func (c *Controller) QSIGExecPossible(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvRemoteUserFree)
}

// InterrogateRsp handles the ccbsInterrogate/ccnrInterrogate result for
// the monitor's own snapshot of records toward a given addressing peer.
// It does not touch any record's FSM — it is answered from pool state
// directly by the admin-facing caller — but logs the query for
// observability.
func (c *Controller) InterrogateRsp(ctx context.Context, entries []rose.InterrogateEntry) {
	logger.InfoCtx(ctx, "cc interrogate response received", "entry_count", len(entries))
}

// SignalingGone notifies the controller that the call leg underneath a
// record's Signaling reference has been torn down while CC bookkeeping
// must survive (e.g. basic call cleared normally after CC activation).
func (c *Controller) SignalingGone(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvSignalingGone)
}

// HangupSignaling notifies the controller that the signaling link itself
// must be torn down as part of record destruction (Q.SIG link retention
// release).
func (c *Controller) HangupSignaling(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvHangupSignaling)
}

// MsgAlerting notifies the controller of an ALERTING message on a call
// that has an offered-but-not-yet-available CC record (PTMP agent:
// availability becomes possible only once the bearer begins ringing).
func (c *Controller) MsgAlerting(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvMsgAlerting)
}

// Suspend/Resume carry Q.SIG call-suspend stimuli for an activated
// record whose underlying call leg is parked.
func (c *Controller) Suspend(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvSuspend)
}

func (c *Controller) Resume(ctx context.Context, ccID uint16) error {
	return c.eventByID(ctx, ccID, fsm.EvResume)
}

// statusSnapshot is a read-only view of a record for interrogation and
// the admin API.
type statusSnapshot struct {
	RecordID  uint16
	Dialect   record.Dialect
	State     record.State
	IsAgent   bool
	IsCCNR    bool
	PartyA    party.Identity
	PartyB    party.Identity
}

// Status returns a snapshot of every live record, for cc_status and the
// admin HTTP surface.
func (c *Controller) Status() []statusSnapshot {
	snap := c.pool.Snapshot()
	out := make([]statusSnapshot, 0, len(snap))
	for _, r := range snap {
		out = append(out, statusSnapshot{
			RecordID: r.RecordID,
			Dialect:  r.Dialect,
			State:    r.State,
			IsAgent:  r.IsAgent,
			IsCCNR:   r.IsCCNR,
			PartyA:   r.PartyA,
			PartyB:   r.PartyB,
		})
	}
	return out
}
