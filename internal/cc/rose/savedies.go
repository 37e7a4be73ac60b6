// Package rose bridges the in-memory party model to the ROSE operations
// carried on the wire, and holds the saved-IE blob search/comparison used
// by the CC record pool's addressing-match lookup. The bit-exact ASN.1 BER
// encode/decode of named operations is an external collaborator and is not
// declared in this module; this package only shapes the fields that cross
// that boundary.
package rose

// IE type tags this package searches for inside a saved-IE blob. Only
// these three IE types are ever captured from the offering SETUP.
const (
	IEBearerCapability       byte = 0x04
	IEHighLayerCompatibility byte = 0x7d
	IELowLayerCompatibility  byte = 0x7c
)

// SavedIEs is the immutable concatenation of the Bearer-Capability,
// High-Layer-Compatibility and Low-Layer-Compatibility IEs as they
// appeared in the SETUP that offered CC.
type SavedIEs struct {
	blob []byte
}

// NewSavedIEs wraps a byte buffer as an immutable SavedIEs value. Callers
// must not mutate buf afterward.
func NewSavedIEs(buf []byte) SavedIEs {
	return SavedIEs{blob: buf}
}

// Bytes returns the raw concatenated blob.
func (s SavedIEs) Bytes() []byte {
	return s.blob
}

// Find walks the blob looking for the first occurrence of the given IE
// type, reading single-octet or length-prefixed IEs as it goes. It returns
// the IE's value bytes and true if found, or false if the IE is absent or
// its declared length does not fit within the remaining blob.
func (s SavedIEs) Find(ieType byte) ([]byte, bool) {
	buf := s.blob
	for i := 0; i < len(buf); {
		tag := buf[i]
		if tag&0x80 != 0 && tag&0xf0 != 0x80 {
			// single-octet IE (no length byte), not one of the three we track
			i++
			continue
		}
		if i+1 >= len(buf) {
			return nil, false
		}
		length := int(buf[i+1])
		start := i + 2
		end := start + length
		if end > len(buf) {
			return nil, false
		}
		if tag == ieType {
			return buf[start:end], true
		}
		i = end
	}
	return nil, false
}

// Equal reports whether two saved-IE blobs are equivalent for CC pool
// addressing-match purposes: for each of BC/HLC/LLC, either both blobs
// lack that IE or both contain a byte-identical occurrence at its first
// appearance.
func (s SavedIEs) Equal(other SavedIEs) bool {
	for _, ie := range [...]byte{IEBearerCapability, IEHighLayerCompatibility, IELowLayerCompatibility} {
		a, aok := s.Find(ie)
		b, bok := other.Find(ie)
		if aok != bok {
			return false
		}
		if aok && !bytesEqual(a, b) {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
