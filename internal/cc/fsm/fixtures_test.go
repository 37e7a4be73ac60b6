package fsm

import (
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/rose"
)

func partyIdentityFixture() party.Identity {
	return party.Identity{
		Number: party.Number{Valid: true, Digits: "5551234", Presentation: party.PresentationAllowed},
	}
}

func roseSavedIEsFixture() rose.SavedIEs {
	return rose.NewSavedIEs([]byte{rose.IEBearerCapability, 1, 0x80})
}
