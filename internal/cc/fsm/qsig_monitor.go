package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectQSIG, RoleMonitor, qsigMonitorTable)
}

// qsigMonitorTable: the monitor queues ccbsRequest/ccnrRequest for a CIS
// SETUP. The request carries Option.RetainSignalingLink as the record
// holds it; neither this table nor the Controller sets that flag from
// signaling_retention_req.
var qsigMonitorTable = Table{
	record.StateAvailable: {
		EvCCRequest: func(c *ActionContext) record.State {
			fields := rose.QSIGRequestFields{
				NFE:                 qsigNFEHeader,
				Interpretation:      rose.InterpretationDiscardUnrecognised,
				RecallMode:          c.Record.Option.RecallMode,
				PartyB:              c.Record.PartyB.AsAddress(),
				RetainSignalingLink: c.Record.Option.RetainSignalingLink,
			}
			var payload []byte
			if c.Record.IsCCNR {
				payload = rose.EncodeCcnrRequest(fields)
			} else {
				payload = rose.EncodeCcbsRequest(fields)
			}
			c.queue().Append(q931.Setup, payload, nil) // on a CIS SETUP
			return record.StateRequested
		},
	},

	record.StateRequested: {
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
			c.Deps.Emitter.BFree(c.Record.RecordID)
			return record.StateActivated
		},
		EvRemoteUserFree: func(c *ActionContext) record.State {
			c.Deps.Emitter.RemoteUserFree(c.Record.RecordID)
			return record.StateWaitCallback
		},
		EvSuspend: func(c *ActionContext) record.State {
			return record.StateSuspended
		},
		EvSignalingGone: func(c *ActionContext) record.State {
			c.disassociateSignaling()
			return record.StateActivated
		},
		// Incoming ccCancel defers to HANGUP_SIGNALING so the link
		// teardown and the subcommand pass-up happen together, once.
		EvCancel: func(c *ActionContext) record.State {
			c.armTIndirect(EvHangupSignaling)
			return record.StateActivated
		},
		EvHangupSignaling: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
	},

	record.StateSuspended: {
		EvResume: func(c *ActionContext) record.State {
			return record.StateActivated
		},
	},

	record.StateWaitCallback: {
		EvRecall: func(c *ActionContext) record.State {
			c.Deps.Emitter.Call(c.Record.RecordID)
			return record.StateCallback
		},
	},
}
