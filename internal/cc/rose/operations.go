package rose

import (
	"encoding/json"

	"github.com/tormodfh/pricc/internal/cc/party"
)

// Operation names the core generates or accepts, grouped by dialect. These
// are the wire operation names, not Go type names; they appear in logs and
// span attributes verbatim.
const (
	OpCallInfoRetain     = "CallInfoRetain"
	OpEraseCallLinkageID = "EraseCallLinkageID"
	OpCCBSRequest        = "CCBSRequest"
	OpCCNRRequest        = "CCNRRequest"
	OpCCBSDeactivate     = "CCBSDeactivate"
	OpCCBSInterrogate    = "CCBSInterrogate"
	OpCCNRInterrogate    = "CCNRInterrogate"
	OpCCBSErase          = "CCBSErase"
	OpCCBSBFree          = "CCBSBFree"
	OpCCBSRemoteUserFree = "CCBSRemoteUserFree"
	OpCCBSStatusRequest  = "CCBSStatusRequest"
	OpCCBSCall           = "CCBSCall"
	OpCCBSStopAlerting   = "CCBSStopAlerting"

	OpCCBS_T_Available      = "CCBS_T_Available"
	OpCCBS_T_Request        = "CCBS_T_Request"
	OpCCNR_T_Request        = "CCNR_T_Request"
	OpCCBS_T_RemoteUserFree = "CCBS_T_RemoteUserFree"
	OpCCBS_T_Suspend        = "CCBS_T_Suspend"
	OpCCBS_T_Resume         = "CCBS_T_Resume"
	OpCCBS_T_Call           = "CCBS_T_Call"

	OpCcbsRequest    = "CcbsRequest"
	OpCcnrRequest    = "CcnrRequest"
	OpCcCancel       = "CcCancel"
	OpCcExecPossible = "CcExecPossible"
	OpCcSuspend      = "CcSuspend"
	OpCcResume       = "CcResume"
	OpCcRingout      = "CcRingout"

	OpLoopTest = "LoopTest"
)

// EraseReason enumerates the four reasons a CCBSErase/CcCancel is sent.
type EraseReason int

const (
	EraseNormal EraseReason = iota
	EraseTCCBS2
	EraseTCCBS3
	EraseBasicCallFailed
)

// RecallMode is the agent's globally-configured or per-record recall
// policy, conveyed in every outgoing PTMP informational invoke.
type RecallMode int

const (
	RecallModeGlobal RecallMode = iota
	RecallModeSpecific
)

// NFEHeader carries the Q.SIG network-facility-extension envelope fields
// present on every Q.SIG CC invoke.
type NFEHeader struct {
	SourceEntity      string // "endPINX"
	DestinationEntity string // "endPINX"
}

// Interpretation is the Q.SIG APDU interpretation component.
type Interpretation int

const (
	InterpretationDiscardUnrecognised Interpretation = iota
	InterpretationClearCallIfUnrecognised
)

// RequestFields are the fields common to CCBSRequest/CCNRRequest,
// CCBS_T_Request/CCNR_T_Request, and CcbsRequest/CcnrRequest result
// operations: the record's recall mode plus party-B addressing as seen by
// the peer.
type RequestFields struct {
	RecallMode RecallMode
	PartyB     party.Address
}

// InterrogateEntry is one row of a CCBSInterrogate/CCNRInterrogate result:
// the "CallDetails" the original tracks per outstanding CCBS/CCNR.
type InterrogateEntry struct {
	ReferenceID int
	PartyA      party.Address
	PartyB      party.Address
	RecallMode  RecallMode
}

// InterrogateResult is the full result set for an interrogation, plus the
// truncation accounting the original performs when the encoder's buffer
// cannot hold every entry.
type InterrogateResult struct {
	Entries []InterrogateEntry
	Dropped int
}

// EncodeInterrogateResult trims entries to maxEntries, recording how many
// were dropped so callers can log/metric the truncation (the original
// tracks this count when truncating CallDetails to fit the encoder
// buffer).
func EncodeInterrogateResult(all []InterrogateEntry, maxEntries int) InterrogateResult {
	if len(all) <= maxEntries {
		return InterrogateResult{Entries: all, Dropped: 0}
	}
	return InterrogateResult{
		Entries: all[:maxEntries],
		Dropped: len(all) - maxEntries,
	}
}

// LoopTestResponse answers every inbound LoopTest (ETS 300 369)
// unconditionally with Gen_NotAvailable, per the fixed policy recorded as
// an open-question decision; it is not wired into any FSM table.
const LoopTestResponse = "Gen_NotAvailable"

// ============================================================================
// Wire envelope
// ============================================================================
//
// Bit-exact ASN.1 BER encoding of these operations onto a FACILITY IE is an
// external collaborator's job (the D-channel stack owns APDU framing); this
// package produces the structured value that collaborator serializes, as a
// small self-describing envelope of operation name plus fields. Encode
// never fails outward (a marshal error yields an envelope with empty
// fields rather than propagating up through every FSM action); Decode
// reports malformed envelopes to its caller.

// Envelope is the operation name plus its encoded fields, the unit every
// Append/Lookup call on the APDU queue carries.
type Envelope struct {
	Operation string          `json:"operation"`
	Fields    json.RawMessage `json:"fields,omitempty"`
}

func encode(operation string, fields any) []byte {
	raw, err := json.Marshal(fields)
	if err != nil {
		body, _ := json.Marshal(Envelope{Operation: operation})
		return body
	}
	body, err := json.Marshal(Envelope{Operation: operation, Fields: raw})
	if err != nil {
		return nil
	}
	return body
}

func decode(payload []byte, fields any) (string, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", err
	}
	if fields == nil || len(env.Fields) == 0 {
		return env.Operation, nil
	}
	if err := json.Unmarshal(env.Fields, fields); err != nil {
		return env.Operation, err
	}
	return env.Operation, nil
}

// ============================================================================
// ETSI PTMP
// ============================================================================

// CallInfoRetainFields carries the linkage id the monitor must echo back
// on any later cc-request.
type CallInfoRetainFields struct {
	LinkageID int
}

func EncodeCallInfoRetain(f CallInfoRetainFields) []byte { return encode(OpCallInfoRetain, f) }

func DecodeCallInfoRetain(payload []byte) (CallInfoRetainFields, error) {
	var f CallInfoRetainFields
	_, err := decode(payload, &f)
	return f, err
}

// LinkageFields is shared by EraseCallLinkageID and any other
// linkage-id-only operation.
type LinkageFields struct {
	LinkageID int
}

func EncodeEraseCallLinkageID(f LinkageFields) []byte { return encode(OpEraseCallLinkageID, f) }

func DecodeEraseCallLinkageID(payload []byte) (LinkageFields, error) {
	var f LinkageFields
	_, err := decode(payload, &f)
	return f, err
}

// RequestInvokeFields is what the monitor sends to activate an offered CC:
// CCBSRequest/CCNRRequest (PTMP, linkage-id addressed) and CCBS_T_Request/
// CCNR_T_Request (PTP, LinkageID left at its zero/invalid value).
type RequestInvokeFields struct {
	LinkageID  int
	RecallMode RecallMode
	PartyB     party.Address
}

func EncodeCCBSRequest(f RequestInvokeFields) []byte { return encode(OpCCBSRequest, f) }
func EncodeCCNRRequest(f RequestInvokeFields) []byte { return encode(OpCCNRRequest, f) }
func EncodeCCBSTRequest(f RequestInvokeFields) []byte { return encode(OpCCBS_T_Request, f) }
func EncodeCCNRTRequest(f RequestInvokeFields) []byte { return encode(OpCCNR_T_Request, f) }

func DecodeCCBSRequest(payload []byte) (RequestInvokeFields, error) {
	var f RequestInvokeFields
	_, err := decode(payload, &f)
	return f, err
}

func DecodeCCNRRequest(payload []byte) (RequestInvokeFields, error) {
	var f RequestInvokeFields
	_, err := decode(payload, &f)
	return f, err
}

// RequestResultFields is the agent's answer to a cc-request: the allocated
// reference id (PTMP only) and the confirmed recall mode.
type RequestResultFields struct {
	ReferenceID int
	RecallMode  RecallMode
}

func EncodeCCBSRequestResult(f RequestResultFields) []byte { return encode(OpCCBSRequest, f) }
func EncodeCCNRRequestResult(f RequestResultFields) []byte { return encode(OpCCNRRequest, f) }

func DecodeCCBSRequestResult(payload []byte) (RequestResultFields, error) {
	var f RequestResultFields
	_, err := decode(payload, &f)
	return f, err
}

// ReferenceFields is shared by every PTMP operation that only needs to
// carry the reference id: CCBSDeactivate, CCBSBFree, CCBSRemoteUserFree,
// CCBSStatusRequest (invoke), CCBSStopAlerting.
type ReferenceFields struct {
	ReferenceID int
}

func EncodeCCBSDeactivate(f ReferenceFields) []byte     { return encode(OpCCBSDeactivate, f) }
func EncodeCCBSBFree(f ReferenceFields) []byte          { return encode(OpCCBSBFree, f) }
func EncodeCCBSRemoteUserFree(f ReferenceFields) []byte { return encode(OpCCBSRemoteUserFree, f) }
func EncodeCCBSStatusRequest(f ReferenceFields) []byte  { return encode(OpCCBSStatusRequest, f) }
func EncodeCCBSStopAlerting(f ReferenceFields) []byte   { return encode(OpCCBSStopAlerting, f) }

func DecodeReferenceFields(payload []byte) (ReferenceFields, error) {
	var f ReferenceFields
	_, err := decode(payload, &f)
	return f, err
}

// CCBSStatusResultFields is the per-bus-participant result of a
// CCBSStatusRequest poll: whether that participant reports party A busy.
type CCBSStatusResultFields struct {
	ReferenceID int
	Busy        bool
}

func EncodeCCBSStatusResult(f CCBSStatusResultFields) []byte { return encode(OpCCBSStatusRequest, f) }

func DecodeCCBSStatusResult(payload []byte) (CCBSStatusResultFields, error) {
	var f CCBSStatusResultFields
	_, err := decode(payload, &f)
	return f, err
}

// CCBSEraseFields carries the reference id and reason for an erase.
type CCBSEraseFields struct {
	ReferenceID int
	Reason      EraseReason
}

func EncodeCCBSErase(f CCBSEraseFields) []byte { return encode(OpCCBSErase, f) }

func DecodeCCBSErase(payload []byte) (CCBSEraseFields, error) {
	var f CCBSEraseFields
	_, err := decode(payload, &f)
	return f, err
}

// CCBSCallFields is the global-recall CCBSCall invoke broadcast on the
// bus; the participant whose reference matches answers, everyone else
// ignores it.
type CCBSCallFields struct {
	ReferenceID int
	PartyB      party.Address
}

func EncodeCCBSCall(f CCBSCallFields) []byte { return encode(OpCCBSCall, f) }

func DecodeCCBSCall(payload []byte) (CCBSCallFields, error) {
	var f CCBSCallFields
	_, err := decode(payload, &f)
	return f, err
}

// ============================================================================
// ETSI PTP
// ============================================================================

// TAvailableFields is CCBS_T_Available's payload: both parties' addressing
// as seen on the original call, so the monitor side can record them
// without a shared linkage id.
type TAvailableFields struct {
	PartyA party.Address
	PartyB party.Address
}

func EncodeCCBSTAvailable(f TAvailableFields) []byte { return encode(OpCCBS_T_Available, f) }

func DecodeCCBSTAvailable(payload []byte) (TAvailableFields, error) {
	var f TAvailableFields
	_, err := decode(payload, &f)
	return f, err
}

// EmptyFields marks an envelope carrying no fields beyond its operation
// name: once a PTP or Q.SIG record is bound to its dedicated signalling
// call, later informational invokes (CCBS_T_RemoteUserFree, CCBS_T_Suspend,
// CCBS_T_Resume) need no further addressing.
type EmptyFields struct{}

func EncodeCCBSTRemoteUserFree() []byte { return encode(OpCCBS_T_RemoteUserFree, EmptyFields{}) }
func EncodeCCBSTSuspend() []byte        { return encode(OpCCBS_T_Suspend, EmptyFields{}) }
func EncodeCCBSTResume() []byte         { return encode(OpCCBS_T_Resume, EmptyFields{}) }

// TCallFields is CCBS_T_Call's payload: the saved party-B addressing the
// recalled SETUP must carry.
type TCallFields struct {
	PartyB party.Address
}

func EncodeCCBSTCall(f TCallFields) []byte { return encode(OpCCBS_T_Call, f) }

func DecodeCCBSTCall(payload []byte) (TCallFields, error) {
	var f TCallFields
	_, err := decode(payload, &f)
	return f, err
}

// ============================================================================
// Q.SIG
// ============================================================================

// QSIGEnvelopeFields is the NFE header plus interpretation component every
// Q.SIG CC invoke carries, with no further operation-specific fields
// (ccCancel, ccExecPossible, ccSuspend, ccResume, ccRingout: these all ride
// a dedicated CIS call already bound to the record).
type QSIGEnvelopeFields struct {
	NFE            NFEHeader
	Interpretation Interpretation
}

func EncodeCcCancel(f QSIGEnvelopeFields) []byte       { return encode(OpCcCancel, f) }
func EncodeCcExecPossible(f QSIGEnvelopeFields) []byte { return encode(OpCcExecPossible, f) }
func EncodeCcSuspend(f QSIGEnvelopeFields) []byte      { return encode(OpCcSuspend, f) }
func EncodeCcResume(f QSIGEnvelopeFields) []byte       { return encode(OpCcResume, f) }
func EncodeCcRingout(f QSIGEnvelopeFields) []byte      { return encode(OpCcRingout, f) }

func DecodeCcCancel(payload []byte) (QSIGEnvelopeFields, error) {
	var f QSIGEnvelopeFields
	_, err := decode(payload, &f)
	return f, err
}

func DecodeCcExecPossible(payload []byte) (QSIGEnvelopeFields, error) {
	var f QSIGEnvelopeFields
	_, err := decode(payload, &f)
	return f, err
}

// QSIGRequestFields is ccbsRequest/ccnrRequest's payload: the NFE header,
// interpretation, recall mode, party-B addressing, and the signalling-link
// retention the monitor is proposing.
type QSIGRequestFields struct {
	NFE                 NFEHeader
	Interpretation      Interpretation
	RecallMode          RecallMode
	PartyB              party.Address
	RetainSignalingLink bool
}

func EncodeCcbsRequest(f QSIGRequestFields) []byte { return encode(OpCcbsRequest, f) }
func EncodeCcnrRequest(f QSIGRequestFields) []byte { return encode(OpCcnrRequest, f) }

func DecodeCcbsRequest(payload []byte) (QSIGRequestFields, error) {
	var f QSIGRequestFields
	_, err := decode(payload, &f)
	return f, err
}

func DecodeCcnrRequest(payload []byte) (QSIGRequestFields, error) {
	var f QSIGRequestFields
	_, err := decode(payload, &f)
	return f, err
}
