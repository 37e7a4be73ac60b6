package record

import (
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/ccerrors"
)

// maxLinkageRefID is the 7-bit id space PTMP linkage/reference ids live
// in (0..127).
const maxLinkageRefID = 128

// Pool holds every active CC record for one controller, in chronological
// (insertion) order to preserve interrogation ordering, plus the
// last-allocated counters for each id space.
type Pool struct {
	records []*Record

	lastRecordID    uint16
	lastLinkageID   int
	lastReferenceID int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{lastLinkageID: -1, lastReferenceID: -1}
}

// Insert appends a new record at the tail of the pool.
func (p *Pool) Insert(r *Record) {
	p.records = append(p.records, r)
}

// Remove unlinks a record from the pool. It is a no-op if the record is
// not present.
func (p *Pool) Remove(r *Record) {
	for i, rec := range p.records {
		if rec == r {
			p.records = append(p.records[:i], p.records[i+1:]...)
			return
		}
	}
}

// Len returns the number of records currently pooled.
func (p *Pool) Len() int {
	return len(p.records)
}

// Snapshot returns the pool's records in insertion order, for interrogation
// and admin-surface reads. Callers must not mutate the returned slice's
// backing array.
func (p *Pool) Snapshot() []*Record {
	return p.records
}

// ByRecordID finds a record by exact record_id match.
func (p *Pool) ByRecordID(id uint16) (*Record, bool) {
	for _, r := range p.records {
		if r.RecordID == id {
			return r, true
		}
	}
	return nil, false
}

// ByReferenceID finds a record whose reference_id is not INVALID and
// matches exactly.
func (p *Pool) ByReferenceID(id int) (*Record, bool) {
	if id == Invalid {
		return nil, false
	}
	for _, r := range p.records {
		if r.PTMP.ReferenceID != Invalid && r.PTMP.ReferenceID == id {
			return r, true
		}
	}
	return nil, false
}

// ByLinkageID finds a record whose linkage_id is not INVALID and matches
// exactly.
func (p *Pool) ByLinkageID(id int) (*Record, bool) {
	if id == Invalid {
		return nil, false
	}
	for _, r := range p.records {
		if r.PTMP.LinkageID != Invalid && r.PTMP.LinkageID == id {
			return r, true
		}
	}
	return nil, false
}

// ByAddressing finds a record whose party_a digits match candidateA
// ignoring presentation, whose party_b digits equal candidateB's, and whose
// saved_ies are equal to candidateIEs. Number type, plan and subaddress are
// not compared for either party. This lookup underlies every
// Q.SIG/PTP request.
func (p *Pool) ByAddressing(candidateA, candidateB party.Address, candidateIEs rose.SavedIEs) (*Record, bool) {
	for _, r := range p.records {
		if !numberMatchIgnoringPresentation(r.PartyA.Number.Digits, candidateA.Number.Digits) {
			continue
		}
		if r.PartyB.Number.Digits != candidateB.Number.Digits {
			continue
		}
		if !r.SavedIEs.Equal(candidateIEs) {
			continue
		}
		return r, true
	}
	return nil, false
}

func numberMatchIgnoringPresentation(a, b string) bool {
	return a == b
}

// AllocateRecordID advances the wrap-around 16-bit record-id counter,
// skipping already-used ids. Returns ccerrors.ResourceExhaustedError when
// the space is fully occupied.
func (p *Pool) AllocateRecordID() (uint16, error) {
	for i := 0; i < 1<<16; i++ {
		p.lastRecordID++
		if p.lastRecordID == 0 {
			p.lastRecordID++ // 0 is not a valid record_id
		}
		if _, found := p.ByRecordID(p.lastRecordID); !found {
			return p.lastRecordID, nil
		}
	}
	return 0, ccerrors.NewResourceExhaustedError("record_id", 1<<16-1)
}

// AllocateLinkageID advances the wrap-around 7-bit linkage-id counter,
// skipping already-used ids.
func (p *Pool) AllocateLinkageID() (int, error) {
	return p.allocate7Bit(&p.lastLinkageID, p.ByLinkageID, "linkage_id")
}

// AllocateReferenceID advances the wrap-around 7-bit reference-id counter,
// skipping already-used ids.
func (p *Pool) AllocateReferenceID() (int, error) {
	return p.allocate7Bit(&p.lastReferenceID, p.ByReferenceID, "reference_id")
}

func (p *Pool) allocate7Bit(counter *int, lookup func(int) (*Record, bool), space string) (int, error) {
	for i := 0; i < maxLinkageRefID; i++ {
		*counter = (*counter + 1) % maxLinkageRefID
		if _, found := lookup(*counter); !found {
			return *counter, nil
		}
	}
	return Invalid, ccerrors.NewResourceExhaustedError(space, maxLinkageRefID-1)
}
