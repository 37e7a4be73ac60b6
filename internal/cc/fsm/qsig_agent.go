package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectQSIG, RoleAgent, qsigAgentTable)
}

// qsigAgentTable: availability is implicit; no FSM edge drives entry to
// StateAvailable. Records created by NewForAgentRequest /
// NewForAddressingMatch start in StateRequested.
var qsigAgentTable = Table{
	record.StateAvailable: {
		// ccbsRequest/ccnrRequest matched by addressing: pass up for the
		// application to decide.
		EvCCRequest: func(c *ActionContext) record.State {
			c.passReq()
			return record.StateRequested
		},
	},

	record.StateRequested: {
		// Acceptance may arrive on CONNECT or RELEASE; both are handled
		// alike. The carrier and the monitor's retention demand are not
		// consulted: every acceptance activates and arms T_SUPERVISION.
		EvCCRequestAccept: func(c *ActionContext) record.State {
			c.passReqRsp(subcommand.ReqRspSuccess, 0)
			c.armSupervision()
			return record.StateActivated
		},
		EvCCRequestFail: func(c *ActionContext) record.State {
			c.passReqRsp(subcommand.ReqRspError, 0)
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
	},

	record.StateActivated: {
		EvBFree: func(c *ActionContext) record.State {
			payload := rose.EncodeCcExecPossible(rose.QSIGEnvelopeFields{
				NFE:            qsigNFEHeader,
				Interpretation: rose.InterpretationDiscardUnrecognised,
			})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateActivated
		},
		EvRemoteUserFree: func(c *ActionContext) record.State {
			// Receiving ccExecPossible implicitly switches the agent
			// back to retain-signaling.
			c.Record.Option.RetainSignalingLink = true
			return record.StateWaitCallback
		},
		EvSuspend: func(c *ActionContext) record.State {
			payload := rose.EncodeCcSuspend(rose.QSIGEnvelopeFields{
				NFE:            qsigNFEHeader,
				Interpretation: rose.InterpretationDiscardUnrecognised,
			})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateSuspended
		},
		// SIGNALING_GONE does not destroy the record while a
		// no-signalling period is expected; it only disassociates.
		EvSignalingGone: func(c *ActionContext) record.State {
			c.disassociateSignaling()
			return record.StateActivated
		},
		// Incoming ccCancel defers the actual erase past this event's
		// tail via HANGUP_SIGNALING, which also tears down the
		// signalling link; that keeps a single eraseAndDestroy call on
		// the hangup path instead of racing two.
		EvCancel: func(c *ActionContext) record.State {
			c.armTIndirect(EvHangupSignaling)
			return record.StateActivated
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
		EvHangupSignaling: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
	},

	record.StateSuspended: {
		EvResume: func(c *ActionContext) record.State {
			payload := rose.EncodeCcResume(rose.QSIGEnvelopeFields{
				NFE:            qsigNFEHeader,
				Interpretation: rose.InterpretationDiscardUnrecognised,
			})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateActivated
		},
	},

	record.StateWaitCallback: {
		EvRecall: func(c *ActionContext) record.State {
			payload := rose.EncodeCcRingout(rose.QSIGEnvelopeFields{
				NFE:            qsigNFEHeader,
				Interpretation: rose.InterpretationDiscardUnrecognised,
			})
			c.queue().Append(q931.Facility, payload, nil)
			c.Deps.Emitter.Call(c.Record.RecordID)
			return record.StateCallback
		},
	},
}
