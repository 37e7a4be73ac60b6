package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/rose"
)

func newTestRecord(id uint16) *Record {
	return &Record{
		RecordID: id,
		State:    StateIdle,
		PTMP:     PTMPState{LinkageID: Invalid, ReferenceID: Invalid},
	}
}

func TestPoolInsertAndByRecordID(t *testing.T) {
	p := NewPool()
	r := newTestRecord(1)
	p.Insert(r)

	found, ok := p.ByRecordID(1)
	assert.True(t, ok)
	assert.Same(t, r, found)

	_, ok = p.ByRecordID(2)
	assert.False(t, ok)
}

func TestPoolRemove(t *testing.T) {
	p := NewPool()
	r := newTestRecord(1)
	p.Insert(r)
	p.Remove(r)
	assert.Equal(t, 0, p.Len())
}

func TestPoolByLinkageAndReferenceIgnoreInvalid(t *testing.T) {
	p := NewPool()
	r := newTestRecord(1)
	r.PTMP.LinkageID = 5
	r.PTMP.ReferenceID = Invalid
	p.Insert(r)

	found, ok := p.ByLinkageID(5)
	assert.True(t, ok)
	assert.Same(t, r, found)

	_, ok = p.ByReferenceID(Invalid)
	assert.False(t, ok)
}

func TestPoolByAddressingMatchesIgnoringPresentation(t *testing.T) {
	p := NewPool()
	r := newTestRecord(1)
	r.PartyA = party.Identity{Number: party.Number{Digits: "1000", Presentation: party.PresentationAllowed}}
	r.PartyB = party.Identity{Number: party.Number{Digits: "2000"}}
	r.SavedIEs = rose.NewSavedIEs([]byte{0x04, 1, 0xaa})
	p.Insert(r)

	candidateA := party.Address{Number: party.Number{Digits: "1000", Presentation: party.PresentationRestricted}}
	candidateB := party.Address{Number: party.Number{Digits: "2000"}}
	candidateIEs := rose.NewSavedIEs([]byte{0x04, 1, 0xaa})

	found, ok := p.ByAddressing(candidateA, candidateB, candidateIEs)
	assert.True(t, ok)
	assert.Same(t, r, found)
}

func TestPoolByAddressingRejectsDifferentPartyB(t *testing.T) {
	p := NewPool()
	r := newTestRecord(1)
	r.PartyA = party.Identity{Number: party.Number{Digits: "1000"}}
	r.PartyB = party.Identity{Number: party.Number{Digits: "2000"}}
	p.Insert(r)

	candidateA := party.Address{Number: party.Number{Digits: "1000"}}
	candidateB := party.Address{Number: party.Number{Digits: "9999"}}

	_, ok := p.ByAddressing(candidateA, candidateB, rose.SavedIEs{})
	assert.False(t, ok)
}

func TestAllocateRecordIDSkipsUsed(t *testing.T) {
	p := NewPool()
	p.Insert(newTestRecord(1))

	id, err := p.AllocateRecordID()
	assert.NoError(t, err)
	assert.NotEqual(t, uint16(0), id)
	assert.NotEqual(t, uint16(1), id)
}

func TestAllocateLinkageIDStartsAtZeroAndAdvances(t *testing.T) {
	p := NewPool()
	id, err := p.AllocateLinkageID()
	assert.NoError(t, err)
	assert.Equal(t, 0, id)

	id2, err := p.AllocateLinkageID()
	assert.NoError(t, err)
	assert.Equal(t, 1, id2)
}

func TestAllocateLinkageIDExhaustion(t *testing.T) {
	p := NewPool()
	for i := 0; i < maxLinkageRefID; i++ {
		r := newTestRecord(uint16(i + 1))
		r.PTMP.LinkageID = i
		p.Insert(r)
	}
	_, err := p.AllocateLinkageID()
	assert.Error(t, err)
}

func TestPartyAStatusAccumulateLattice(t *testing.T) {
	assert.Equal(t, PartyAFree, PartyAInvalid.Accumulate(PartyAFree))
	assert.Equal(t, PartyAFree, PartyABusy.Accumulate(PartyAFree))
	assert.Equal(t, PartyABusy, PartyAInvalid.Accumulate(PartyABusy))
	assert.Equal(t, PartyAInvalid, PartyAInvalid.Accumulate(PartyAInvalid))
}
