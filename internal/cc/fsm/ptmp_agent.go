package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
)

func init() {
	register(record.DialectPTMP, RoleAgent, ptmpAgentTable)
}

var ptmpAgentTable = Table{
	record.StatePendingAvailable: {
		// First ALERTING or busy-cause DISCONNECT: queue CallInfoRetain
		// carrying call_linkage_id and move to AVAILABLE.
		EvMsgAlerting: func(c *ActionContext) record.State {
			payload := rose.EncodeCallInfoRetain(rose.CallInfoRetainFields{LinkageID: c.Record.PTMP.LinkageID})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateAvailable
		},
		EvMsgDisconnect: func(c *ActionContext) record.State {
			payload := rose.EncodeCallInfoRetain(rose.CallInfoRetainFields{LinkageID: c.Record.PTMP.LinkageID})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateAvailable
		},
		// Internal clearing before any signal: release linkage id, self-destruct.
		EvInternalClearing: func(c *ActionContext) record.State {
			c.releaseLinkageID()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
		EvCancel: func(c *ActionContext) record.State {
			c.releaseLinkageID()
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
	},

	record.StateAvailable: {
		EvMsgRelease: func(c *ActionContext) record.State {
			c.armRetention()
			return record.StateAvailable
		},
		EvMsgReleaseComplete: func(c *ActionContext) record.State {
			c.armRetention()
			return record.StateAvailable
		},
		EvInternalClearing: func(c *ActionContext) record.State {
			c.armRetention()
			return record.StateAvailable
		},
		EvTimeoutTRetention: func(c *ActionContext) record.State {
			c.sendEraseCallLinkageID()
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
		EvCancel: func(c *ActionContext) record.State {
			c.sendEraseCallLinkageID()
			c.stopRetention()
			c.passCancel()
			c.markSelfDestruct()
			return record.StateWaitDestruction
		},
		// CCBSRequest/CCNRRequest matching the linkage id: pass up for
		// the application to decide.
		EvCCRequest: func(c *ActionContext) record.State {
			c.stopRetention()
			c.passReq()
			return record.StateRequested
		},
	},

	record.StateRequested: {
		EvCCRequestAccept: func(c *ActionContext) record.State {
			payload := rose.EncodeCCBSRequestResult(rose.RequestResultFields{
				ReferenceID: c.Record.PTMP.ReferenceID,
				RecallMode:  c.Record.Option.RecallMode,
			})
			c.queue().Append(q931.Facility, payload, nil)
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
			payload := rose.EncodeCCBSBFree(rose.ReferenceFields{ReferenceID: c.Record.PTMP.ReferenceID})
			c.queue().Append(q931.Facility, payload, nil)
			return record.StateActivated
		},
		EvRemoteUserFree: func(c *ActionContext) record.State {
			payload := rose.EncodeCCBSRemoteUserFree(rose.ReferenceFields{ReferenceID: c.Record.PTMP.ReferenceID})
			c.queue().Append(q931.Facility, payload, nil)
			switch c.Record.PartyAStatus {
			case record.PartyAFree:
				return record.StateWaitCallback
			case record.PartyABusy:
				bfree := rose.EncodeCCBSBFree(rose.ReferenceFields{ReferenceID: c.Record.PTMP.ReferenceID})
				c.queue().Append(q931.Facility, bfree, nil) // CCBSBFree to the bus
				return record.StateSuspended
			default:
				return record.StateBAvailable
			}
		},
		EvAStatus: func(c *ActionContext) record.State {
			c.Record.PTMP.PartyAStatusAcc = record.PartyAInvalid
			payload := rose.EncodeCCBSStatusRequest(rose.ReferenceFields{ReferenceID: c.Record.PTMP.ReferenceID})
			c.queue().Append(q931.Facility, payload, nil)
			c.armTCCBS1()
			c.armExtendedTCCBS1()
			return record.StateActivated
		},
		// Polling also runs while ACTIVATED: the promotion step updates
		// status without forcing the B_AVAILABLE/SUSPENDED-only
		// transitions that a fresh free/busy observation drives.
		EvTimeoutTCCBS1: func(c *ActionContext) record.State {
			return promotePartyAStatus(c)
		},
		EvTimeoutExtendedTCCBS1: func(c *ActionContext) record.State {
			c.stopExtendedTCCBS1()
			return c.Record.State
		},
		EvAFree: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyAFree)
			return c.Record.State
		},
		EvABusy: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyABusy)
			return c.Record.State
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
		EvLinkCancel: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
		EvCancel: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		},
	},

	record.StateBAvailable: {
		EvAFree: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyAFree)
			return c.Record.State
		},
		EvABusy: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyABusy)
			return c.Record.State
		},
		EvTimeoutTCCBS1: func(c *ActionContext) record.State {
			return promotePartyAStatus(c)
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
	},

	record.StateSuspended: {
		EvAFree: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyAFree)
			return c.Record.State
		},
		EvABusy: func(c *ActionContext) record.State {
			c.accumulatePartyAStatus(record.PartyABusy)
			return c.Record.State
		},
		EvTimeoutTCCBS1: func(c *ActionContext) record.State {
			return promotePartyAStatus(c)
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
	},

	record.StateWaitCallback: {
		EvRecall: func(c *ActionContext) record.State {
			c.Deps.Emitter.Call(c.Record.RecordID)
			return record.StateCallback
		},
		EvStopAlerting: func(c *ActionContext) record.State {
			if c.Record.Option.RecallMode == rose.RecallModeGlobal {
				payload := rose.EncodeCCBSStopAlerting(rose.ReferenceFields{ReferenceID: c.Record.PTMP.ReferenceID})
				c.queue().Append(q931.Facility, payload, nil) // rebroadcast CCBSStopAlerting
			}
			return record.StateActivated
		},
		EvTimeoutTRecall: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS3)
			return record.StateWaitDestruction
		},
		EvTimeoutTSupervision: func(c *ActionContext) record.State {
			c.eraseAndDestroy(rose.EraseTCCBS2)
			return record.StateWaitDestruction
		},
	},
}

// promotePartyAStatus runs when T_CCBS1 fires: the raw accumulator is
// promoted to the confirmed status. All-busy keeps the CC alive and
// resets the fruitless-poll counter; all-silent increments it and
// erases at 3. The promotion step, not the per-response step, is what
// drives the record out of B_AVAILABLE and SUSPENDED; the same
// promotion run while polling from ACTIVATED only updates status.
func promotePartyAStatus(c *ActionContext) record.State {
	c.stopTCCBS1()
	c.stopExtendedTCCBS1()
	switch c.Record.PTMP.PartyAStatusAcc {
	case record.PartyAFree:
		c.Record.PartyAStatus = record.PartyAFree
		c.Record.PTMP.PartyAStatusCount = 0
		c.Deps.Emitter.StatusReqRsp(c.Record.RecordID, false)
		if c.Record.State == record.StateBAvailable || c.Record.State == record.StateSuspended {
			return record.StateWaitCallback
		}
		return c.Record.State
	case record.PartyABusy:
		c.Record.PartyAStatus = record.PartyABusy
		c.Record.PTMP.PartyAStatusCount = 0
		c.Deps.Emitter.StatusReqRsp(c.Record.RecordID, true)
		return c.Record.State
	default:
		c.Record.PTMP.PartyAStatusCount++
		if c.Record.PTMP.PartyAStatusCount >= 3 {
			c.eraseAndDestroy(rose.EraseNormal)
			return record.StateWaitDestruction
		}
		return c.Record.State
	}
}
