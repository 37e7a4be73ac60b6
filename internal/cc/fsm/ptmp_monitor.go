package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectPTMP, RoleMonitor, ptmpMonitorTable)
}

// ptmpMonitorTable: creation is driven externally by an incoming
// CallInfoRetain (see Controller.PTMPRequest), which inserts the record
// already in StateAvailable and immediately notifies the application —
// that insertion path is not itself an FSM edge.
var ptmpMonitorTable = Table{
	record.StateAvailable: {
		EvCCRequest: func(c *ActionContext) record.State {
			fields := rose.RequestInvokeFields{
				LinkageID:  c.Record.PTMP.LinkageID,
				RecallMode: c.Record.Option.RecallMode,
				PartyB:     c.Record.PartyB.AsAddress(),
			}
			var payload []byte
			if c.Record.IsCCNR {
				payload = rose.EncodeCCNRRequest(fields)
			} else {
				payload = rose.EncodeCCBSRequest(fields)
			}
			c.queue().Append(q931.Facility, payload, nil)
			c.armTActivate()
			return record.StateRequested
		},
		EvTimeoutTRetention: func(c *ActionContext) record.State {
			// EraseCallLinkageID received behaves like T_RETENTION
			// expiring on the offering side.
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
	},

	record.StateRequested: {
		EvCCRequestAccept: func(c *ActionContext) record.State {
			c.stopTActivate()
			c.passReqRsp(subcommand.ReqRspSuccess, 0)
			c.armSupervision()
			return record.StateActivated
		},
		EvCCRequestFail: func(c *ActionContext) record.State {
			c.stopTActivate()
			c.passReqRsp(subcommand.ReqRspError, 0)
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
		EvTimeoutTActivate: func(c *ActionContext) record.State {
			c.passReqRsp(subcommand.ReqRspTimeout, 0)
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
		EvCancel: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
	},

	record.StateWaitCallback: {
		EvStopAlerting: func(c *ActionContext) record.State {
			return record.StateActivated
		},
		EvRecall: func(c *ActionContext) record.State {
			c.Deps.Emitter.Call(c.Record.RecordID)
			return record.StateCallback
		},
	},
}
