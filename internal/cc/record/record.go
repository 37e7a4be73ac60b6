// Package record defines the CC record — the single struct shared by all
// six dialect FSM tables — and the pool that allocates, looks up, and
// destroys records.
package record

import (
	"time"

	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/rose"
)

// Invalid is the sentinel value for linkage-id, reference-id, and any
// other id-space member that can be exhausted.
const Invalid = -1

// State is one of the ten FSM states shared by every dialect table.
type State int

const (
	StateIdle State = iota
	StatePendingAvailable
	StateAvailable
	StateRequested
	StateActivated
	StateBAvailable // PTMP agent only
	StateSuspended
	StateWaitCallback
	StateCallback
	StateWaitDestruction
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePendingAvailable:
		return "PENDING_AVAILABLE"
	case StateAvailable:
		return "AVAILABLE"
	case StateRequested:
		return "REQUESTED"
	case StateActivated:
		return "ACTIVATED"
	case StateBAvailable:
		return "B_AVAILABLE"
	case StateSuspended:
		return "SUSPENDED"
	case StateWaitCallback:
		return "WAIT_CALLBACK"
	case StateCallback:
		return "CALLBACK"
	case StateWaitDestruction:
		return "WAIT_DESTRUCTION"
	default:
		return "UNKNOWN"
	}
}

// PartyAStatus is the three-value lattice a record's confirmed and raw
// party-A status accumulator both live in: invalid < busy < free, with
// free absorbing and busy absorbing over invalid.
type PartyAStatus int

const (
	PartyAInvalid PartyAStatus = iota
	PartyABusy
	PartyAFree
)

// Accumulate folds one CCBSStatusRequest result into the raw accumulator
// per the lattice rule: a free result always wins, a busy result wins
// unless free was already seen.
func (s PartyAStatus) Accumulate(result PartyAStatus) PartyAStatus {
	if s == PartyAFree || result == PartyAFree {
		return PartyAFree
	}
	if s == PartyABusy || result == PartyABusy {
		return PartyABusy
	}
	return PartyAInvalid
}

// Dialect selects which of the six FSM tables governs a record.
type Dialect int

const (
	DialectPTMP Dialect = iota
	DialectPTP
	DialectQSIG
)

func (d Dialect) String() string {
	switch d {
	case DialectPTMP:
		return "ptmp"
	case DialectPTP:
		return "ptp"
	case DialectQSIG:
		return "qsig"
	default:
		return "unknown"
	}
}

// RecallOption holds the negotiated/agent-configured recall behaviour for
// a record.
type RecallOption struct {
	RecallMode          rose.RecallMode
	RetainSignalingLink bool
}

// PTMPState is the PTMP-only subset of record state: linkage/reference
// ids and the party-A polling accumulator.
type PTMPState struct {
	LinkageID         int
	ReferenceID       int
	PartyAStatusAcc   PartyAStatus
	PartyAStatusCount int

	// TCCBS1InvokeID is nonzero while a CCBSStatusRequest poll round is
	// outstanding; it is the APDU response descriptor's invoke id, not a
	// scheduler handle.
	TCCBS1InvokeID int32
	// TCCBS1Timer is the poll round's own deadline.
	TCCBS1Timer q931.TimerHandle
	// ExtendedTCCBS1 is armed alongside TCCBS1Timer with the extra guard
	// so unsolicited busy answers can still be passed up mid-round.
	ExtendedTCCBS1 q931.TimerHandle
}

// QSIGState is the Q.SIG-only subset of record state.
type QSIGState struct {
	MsgType           q931.MsgType
	AcceptanceCarrier rose.AcceptanceCarrier
}

// ResponseState holds what is needed to send the deferred result/error for
// the last peer invocation this record must answer.
type ResponseState struct {
	Signaling      q931.Call
	InvokeOperation string
	InvokeID       int32
}

// ReqRspFailure records the saved failure details from the peer's
// rejection of our cc-request.
type ReqRspFailure struct {
	Reason int
	Code   int
}

// Record is the single CC record type shared by all six dialect FSM
// tables. Exactly one exists per active CC interaction.
type Record struct {
	RecordID uint16
	Dialect  Dialect
	IsCCNR   bool
	IsAgent  bool
	State    State

	PartyA party.Identity
	PartyB party.Identity

	SavedIEs  rose.SavedIEs
	BearerCap []byte

	Option RecallOption

	PartyAStatus PartyAStatus

	PTMP PTMPState
	QSIG QSIGState

	Response ResponseState
	ReqRsp   ReqRspFailure

	Signaling    q931.Call
	OriginalCall q931.Call

	TRetention   q931.TimerHandle
	TSupervision q931.TimerHandle
	TRecall      q931.TimerHandle
	TActivate    q931.TimerHandle
	TIndirect    q931.TimerHandle

	FSMComplete bool

	// CreatedAt is when this record was allocated, for the admin API and
	// the lifetime metric recorded on erase.
	CreatedAt time.Time
}

// NewForOffer creates a record for lifecycle path (a): availability is
// offered on an outbound call, agent side.
func NewForOffer(id uint16, dialect Dialect, isCCNR bool, call q931.Call, a, b party.Identity, savedIEs rose.SavedIEs, bearerCap []byte) *Record {
	return &Record{
		RecordID:     id,
		Dialect:      dialect,
		IsCCNR:       isCCNR,
		IsAgent:      true,
		State:        StatePendingAvailable,
		PartyA:       a,
		PartyB:       b,
		SavedIEs:     savedIEs,
		BearerCap:    bearerCap,
		OriginalCall: call,
		PTMP:         PTMPState{LinkageID: Invalid, ReferenceID: Invalid},
		CreatedAt:    time.Now(),
	}
}

// NewForMonitorAvailability creates a record for lifecycle path (b): a
// CallInfoRetain / CCBS_T_Available arrives, monitor side.
func NewForMonitorAvailability(id uint16, dialect Dialect, isCCNR bool, a, b party.Identity, savedIEs rose.SavedIEs, bearerCap []byte) *Record {
	return &Record{
		RecordID:  id,
		Dialect:   dialect,
		IsCCNR:    isCCNR,
		IsAgent:   false,
		State:     StateAvailable,
		PartyA:    a,
		PartyB:    b,
		SavedIEs:  savedIEs,
		BearerCap: bearerCap,
		PTMP:      PTMPState{LinkageID: Invalid, ReferenceID: Invalid},
		CreatedAt: time.Now(),
	}
}

// NewForAgentRequest creates a record for lifecycle path (c): a cc-request
// is matched against saved addressing, Q.SIG/PTP agent side without prior
// availability.
func NewForAgentRequest(id uint16, dialect Dialect, isCCNR bool, a, b party.Identity, savedIEs rose.SavedIEs, bearerCap []byte) *Record {
	r := NewForAddressingMatch(id, dialect, isCCNR, a, b, savedIEs, bearerCap)
	r.IsAgent = true
	return r
}

// NewForAddressingMatch is the internal constructor shared by the Q.SIG/PTP
// agent-without-availability path and any future addressing-matched
// creation; it leaves IsAgent at its zero value for callers to set.
func NewForAddressingMatch(id uint16, dialect Dialect, isCCNR bool, a, b party.Identity, savedIEs rose.SavedIEs, bearerCap []byte) *Record {
	return &Record{
		RecordID:  id,
		Dialect:   dialect,
		IsCCNR:    isCCNR,
		State:     StateRequested,
		PartyA:    a,
		PartyB:    b,
		SavedIEs:  savedIEs,
		BearerCap: bearerCap,
		PTMP:      PTMPState{LinkageID: Invalid, ReferenceID: Invalid},
		CreatedAt: time.Now(),
	}
}

// DisassociateSignaling clears the backlink between the record and its
// Q.931 call leg.
func (r *Record) DisassociateSignaling() {
	r.Signaling = nil
}
