package apdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tormodfh/pricc/internal/cc/q931"
)

func TestFlushMarksSentAndRemovesNoResponseEntries(t *testing.T) {
	q := New()
	q.Append(q931.Facility, []byte{0x01}, nil)
	q.Append(q931.Setup, []byte{0x02}, nil)

	out := q.Flush(q931.Facility)
	assert.Equal(t, [][]byte{{0x01}}, out)
	assert.Equal(t, 1, q.Len())
}

func TestFlushAnyMatchesEveryTarget(t *testing.T) {
	q := New()
	q.Append(q931.Any, []byte{0x01}, nil)
	q.Append(q931.Setup, []byte{0x02}, nil)

	out := q.Flush(q931.Connect)
	assert.Equal(t, [][]byte{{0x01}}, out)
}

func TestFlushKeepsEntryWithResponseDescriptor(t *testing.T) {
	q := New()
	called := false
	q.Append(q931.Facility, []byte{0x01}, &q931.ResponseDescriptor{
		InvokeID:  7,
		TimeoutMs: 4000,
		Callback: func(reason q931.ResponseReason, payload []byte) bool {
			called = true
			return true
		},
	})
	out := q.Flush(q931.Facility)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, q.Len())
	assert.False(t, called)
}

func TestRespondInvokesCallbackAndRemovesWhenDone(t *testing.T) {
	q := New()
	var gotReason q931.ResponseReason
	entry := q.Append(q931.Facility, []byte{0x01}, &q931.ResponseDescriptor{
		InvokeID: 9,
		Callback: func(reason q931.ResponseReason, payload []byte) bool {
			gotReason = reason
			return true
		},
	})
	entry.Sent = true

	found := q.Respond(9, q931.ReasonResult, []byte{0xaa})
	assert.True(t, found)
	assert.Equal(t, q931.ReasonResult, gotReason)
	assert.Equal(t, 0, q.Len())
}

func TestRespondKeepsEntryWhenNotDone(t *testing.T) {
	q := New()
	entry := q.Append(q931.Facility, []byte{0x01}, &q931.ResponseDescriptor{
		InvokeID: 9,
		Callback: func(reason q931.ResponseReason, payload []byte) bool {
			return false
		},
	})
	entry.Sent = true

	q.Respond(9, q931.ReasonResult, nil)
	assert.Equal(t, 1, q.Len())
}

func TestRespondNotFound(t *testing.T) {
	q := New()
	found := q.Respond(123, q931.ReasonResult, nil)
	assert.False(t, found)
}

func TestTimeoutOnMessageFiresMatchingEntries(t *testing.T) {
	q := New()
	var reason q931.ResponseReason
	q.Append(q931.Facility, []byte{0x01}, &q931.ResponseDescriptor{
		MatchMsgTypes: []q931.MsgType{q931.Release},
		Callback: func(r q931.ResponseReason, payload []byte) bool {
			reason = r
			return true
		},
	})
	q.TimeoutOnMessage(q931.Release)
	assert.Equal(t, q931.ReasonTimeout, reason)
	assert.Equal(t, 0, q.Len())
}

func TestCleanupFiresAllPendingOnce(t *testing.T) {
	q := New()
	count := 0
	for i := 0; i < 3; i++ {
		q.Append(q931.Facility, nil, &q931.ResponseDescriptor{
			Callback: func(r q931.ResponseReason, payload []byte) bool {
				count++
				assert.Equal(t, q931.ReasonCleanup, r)
				return true
			},
		})
	}
	q.Cleanup()
	assert.Equal(t, 3, count)
	assert.Equal(t, 0, q.Len())
}

func TestLookupPrefersConcreteThenFallsBackToDummy(t *testing.T) {
	concrete := New()
	dummy := New()
	dummy.Append(q931.Facility, nil, &q931.ResponseDescriptor{InvokeID: 5})

	q, found := Lookup(dummy, concrete, 5)
	assert.True(t, found)
	assert.Same(t, dummy, q)

	concrete.Append(q931.Facility, nil, &q931.ResponseDescriptor{InvokeID: 5})
	q, found = Lookup(dummy, concrete, 5)
	assert.True(t, found)
	assert.Same(t, concrete, q)
}

func TestLookupNotFound(t *testing.T) {
	concrete := New()
	dummy := New()
	_, found := Lookup(dummy, concrete, 99)
	assert.False(t, found)
}
