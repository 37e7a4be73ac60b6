package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectPTP, RoleAgent, ptpAgentTable)
}

// ptpAgentTable shares the PTMP agent's event alphabet, but the
// signalling link is a dedicated CIS call established by REGISTER and
// there is no reference/linkage id: records are matched by addressing.
var ptpAgentTable = Table{
	record.StatePendingAvailable: {
		EvMsgAlerting: func(c *ActionContext) record.State {
			payload := rose.EncodeCCBSTAvailable(rose.TAvailableFields{
				PartyA: c.Record.PartyA.AsAddress(),
				PartyB: c.Record.PartyB.AsAddress(),
			})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateAvailable
		},
		EvInternalClearing: func(c *ActionContext) record.State {
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
	},

	record.StateAvailable: {
		EvCCRequest: func(c *ActionContext) record.State {
			c.passReq()
			return record.StateRequested
		},
		EvSignalingGone: func(c *ActionContext) record.State {
			c.disassociateSignaling()
			return record.StateAvailable
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
			c.queue().Append(q931.Facility, rose.EncodeCCBSTRemoteUserFree(), nil)
			return record.StateActivated
		},
		EvRemoteUserFree: func(c *ActionContext) record.State {
			return record.StateWaitCallback
		},
		EvSuspend: func(c *ActionContext) record.State {
			c.queue().Append(q931.Facility, rose.EncodeCCBSTSuspend(), nil)
			return record.StateSuspended
		},
		// Loss of the signalling link while activated cancels and
		// cleans up.
		EvSignalingGone: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
		EvCancel: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
	},

	record.StateSuspended: {
		EvResume: func(c *ActionContext) record.State {
			c.queue().Append(q931.Facility, rose.EncodeCCBSTResume(), nil)
			return record.StateActivated
		},
		EvSignalingGone: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
	},

	record.StateWaitCallback: {
		EvRecall: func(c *ActionContext) record.State {
			c.Deps.Emitter.Call(c.Record.RecordID)
			return record.StateCallback
		},
		EvTimeoutTRecall: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS3)
			return record.StateWaitDestruction
		},
	},
}
