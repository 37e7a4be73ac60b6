// Package timer names the CC controller's timer surface and selects the
// configured duration for each symbolic timer per dialect and role. Arming
// is left to the record/FSM layer, which owns the q931.Scheduler handle;
// this package only supplies names and the selection tables.
package timer

// Name identifies a symbolic timer. Every record field holding a timer
// handle is mutually exclusive with itself: re-arming always cancels the
// previous handle first.
type Name int

const (
	TRetention Name = iota
	TSupervision
	TRecall
	TActivate
	TCCBS1
	ExtendedTCCBS1
	TIndirect
	TResponse
)

func (n Name) String() string {
	switch n {
	case TRetention:
		return "T_RETENTION"
	case TSupervision:
		return "T_SUPERVISION"
	case TRecall:
		return "T_RECALL"
	case TActivate:
		return "T_ACTIVATE"
	case TCCBS1:
		return "T_CCBS1"
	case ExtendedTCCBS1:
		return "EXTENDED_T_CCBS1"
	case TIndirect:
		return "T_INDIRECT"
	case TResponse:
		return "T_RESPONSE"
	default:
		return "T_UNKNOWN"
	}
}

// Dialect distinguishes which per-mode supervision/recall timer table a
// record selects from.
type Dialect int

const (
	DialectPTMP Dialect = iota
	DialectPTP
	DialectQSIG
)

// Durations is the resolved timer table read from configuration: every key
// named below, expressed in milliseconds.
type Durations struct {
	TRetentionMs int

	TCCBS2Ms int // ETSI-PTMP supervision
	TCCNR2Ms int

	TCCBS5Ms int // ETSI-PTP supervision, agent role
	TCCBS6Ms int // ETSI-PTP supervision, monitor role
	TCCNR5Ms int
	TCCNR6Ms int

	TCCBS3Ms int // ETSI recall deadline

	TCCBS1Ms int // PTMP agent party-A poll deadline

	QSIGCCBST2Ms int // Q.SIG CCBS supervision
	QSIGCCNRT2Ms int // Q.SIG CCNR supervision
	QSIGCCT1Ms   int
	QSIGCCT3Ms   int // Q.SIG recall deadline

	TResponseMs int
}

// ExtendedTCCBS1GuardMs is the fixed guard the PTMP agent adds to T_CCBS1
// to throttle unsolicited status requests from the application.
const ExtendedTCCBS1GuardMs = 2000

// SupervisionDuration selects the supervision timer duration for the given
// dialect, CCNR-vs-CCBS mode, and (for ETSI-PTP) agent role.
func SupervisionDuration(d Durations, dialect Dialect, isCCNR, isAgent bool) int {
	switch dialect {
	case DialectPTMP:
		if isCCNR {
			return d.TCCNR2Ms
		}
		return d.TCCBS2Ms
	case DialectPTP:
		if isCCNR {
			if isAgent {
				return d.TCCNR5Ms
			}
			return d.TCCNR6Ms
		}
		if isAgent {
			return d.TCCBS5Ms
		}
		return d.TCCBS6Ms
	case DialectQSIG:
		if isCCNR {
			return d.QSIGCCNRT2Ms
		}
		return d.QSIGCCBST2Ms
	default:
		return 0
	}
}

// RecallDuration selects T_RECALL's deadline for the given dialect.
func RecallDuration(d Durations, dialect Dialect) int {
	if dialect == DialectQSIG {
		return d.QSIGCCT3Ms
	}
	return d.TCCBS3Ms
}
