// Package party models the identity values CC records carry: numbers,
// subaddresses, names, and the addresses built from them. It also converts
// between that in-memory model and the ROSE wire enumerants, since the two
// are defined together by the same ETSI/Q.SIG tables (type-of-number,
// numbering-plan, presentation, screening).
package party

// Presentation is the two-field presentation/screening state of a number
// or name as carried on the wire.
type Presentation int

const (
	// PresentationAllowed means the identity may be shown to the peer.
	PresentationAllowed Presentation = iota

	// PresentationRestricted means the identity must be withheld from the peer.
	PresentationRestricted

	// PresentationUnavailable means the identity could not be determined,
	// typically due to interworking with a network that dropped it.
	PresentationUnavailable
)

func (p Presentation) String() string {
	switch p {
	case PresentationAllowed:
		return "allowed"
	case PresentationRestricted:
		return "restricted"
	case PresentationUnavailable:
		return "unavailable"
	default:
		return "unavailable"
	}
}

// Screening is the screening half of a number's presentation octet.
type Screening int

const (
	ScreeningUserNotScreened Screening = iota
	ScreeningUserVerifiedPassed
	ScreeningUserVerifiedFailed
	ScreeningNetworkProvided
)

// TypeOfNumber is the combined type-of-number field of a number IE.
type TypeOfNumber int

const (
	TypeOfNumberUnknown TypeOfNumber = iota
	TypeOfNumberInternational
	TypeOfNumberNational
	TypeOfNumberNetworkSpecific
	TypeOfNumberSubscriber
	TypeOfNumberAbbreviated
)

// NumberingPlan is the numbering-plan field of a number IE.
type NumberingPlan int

const (
	NumberingPlanUnknown NumberingPlan = iota
	NumberingPlanISDN
	NumberingPlanData
	NumberingPlanTelex
	NumberingPlanNational
	NumberingPlanPrivate
)

// Number is a party's digit string together with its addressing and
// presentation metadata.
type Number struct {
	Valid        bool
	Digits       string
	Type         TypeOfNumber
	Plan         NumberingPlan
	Presentation Presentation
	Screening    Screening
}

// SubaddressKind distinguishes the two subaddress encodings.
type SubaddressKind int

const (
	SubaddressKindNSAP SubaddressKind = iota
	SubaddressKindUserSpecified
)

// Subaddress is a party's subaddress IE content.
type Subaddress struct {
	Valid     bool
	Kind      SubaddressKind
	Bytes     []byte
	OddDigits bool
}

// NamePresentation is the five-valued enum for a name's presentation,
// distinct from a number's three-valued Presentation: it additionally
// distinguishes "not available" from "restricted" and "not screened".
type NamePresentation int

const (
	NamePresentationAllowed NamePresentation = iota
	NamePresentationRestricted
	NamePresentationNotAvailable
	NamePresentationRestrictedNotScreened
	NamePresentationAllowedNotScreened
)

// CharacterSet is the display character set a Name string is encoded in.
type CharacterSet int

const (
	CharacterSetUnknown CharacterSet = iota
	CharacterSetIA5
	CharacterSetUnicode
)

// Name is a display-name IE as captured from or emitted to the wire.
type Name struct {
	Valid        bool
	CharacterSet CharacterSet
	Presentation NamePresentation
	Text         string
}

// Identity is the full (number, subaddress, name) triple captured from a
// SETUP and replayed into ROSE operations and recall SETUPs.
type Identity struct {
	Number     Number
	Subaddress Subaddress
	Name       Name
}

// Address is a party identity without a name, used where ROSE operations
// only carry number and subaddress (e.g. CCBSRequest's party-B).
type Address struct {
	Number     Number
	Subaddress Subaddress
}

// AsAddress drops the name from an Identity.
func (id Identity) AsAddress() Address {
	return Address{Number: id.Number, Subaddress: id.Subaddress}
}
