package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectPTP, RoleMonitor, ptpMonitorTable)
}

var ptpMonitorTable = Table{
	record.StateAvailable: {
		EvCCRequest: func(c *ActionContext) record.State {
			fields := rose.RequestInvokeFields{
				LinkageID:  record.Invalid,
				RecallMode: c.Record.Option.RecallMode,
				PartyB:     c.Record.PartyB.AsAddress(),
			}
			var payload []byte
			if c.Record.IsCCNR {
				payload = rose.EncodeCCNRTRequest(fields)
			} else {
				payload = rose.EncodeCCBSTRequest(fields)
			}
			c.queue().Append(q931.Facility, payload, nil)
			c.armTActivate()
			return record.StateRequested
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
		EvSuspend: func(c *ActionContext) record.State {
			return record.StateSuspended
		},
		EvSignalingGone: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
		EvCancel: func(c *ActionContext) record.State {
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
