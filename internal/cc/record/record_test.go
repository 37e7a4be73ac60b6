package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/rose"
)

func TestNewForOfferStartsPendingAvailableAsAgent(t *testing.T) {
	r := NewForOffer(1, DialectPTMP, false, nil, party.Identity{}, party.Identity{}, rose.SavedIEs{}, nil)
	assert.Equal(t, StatePendingAvailable, r.State)
	assert.True(t, r.IsAgent)
	assert.Equal(t, Invalid, r.PTMP.LinkageID)
	assert.Equal(t, Invalid, r.PTMP.ReferenceID)
}

func TestNewForMonitorAvailabilityStartsAvailableAsMonitor(t *testing.T) {
	r := NewForMonitorAvailability(2, DialectPTMP, true, party.Identity{}, party.Identity{}, rose.SavedIEs{}, nil)
	assert.Equal(t, StateAvailable, r.State)
	assert.False(t, r.IsAgent)
	assert.True(t, r.IsCCNR)
}

func TestNewForAgentRequestStartsRequestedAsAgent(t *testing.T) {
	r := NewForAgentRequest(3, DialectQSIG, false, party.Identity{}, party.Identity{}, rose.SavedIEs{}, nil)
	assert.Equal(t, StateRequested, r.State)
	assert.True(t, r.IsAgent)
}

func TestDisassociateSignalingClearsBacklink(t *testing.T) {
	r := NewForOffer(1, DialectPTMP, false, nil, party.Identity{}, party.Identity{}, rose.SavedIEs{}, nil)
	r.Signaling = nil
	r.DisassociateSignaling()
	assert.Nil(t, r.Signaling)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "B_AVAILABLE", StateBAvailable.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}
