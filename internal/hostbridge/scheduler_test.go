package hostbridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFiresCallback(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{})

	s.Schedule(context.Background(), 5, func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}
}

func TestCancelPreventsCallback(t *testing.T) {
	s := NewScheduler()
	fired := make(chan struct{})

	h := s.Schedule(context.Background(), 50, func(ctx context.Context) {
		close(fired)
	})
	s.Cancel(h)

	select {
	case <-fired:
		t.Fatal("callback fired after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSinkTracksCallsByID(t *testing.T) {
	s := NewSink()
	call := s.NewCall("chan0")
	assert.Equal(t, "chan0", call.ID())

	found, ok := s.LookupByLinkID("chan0")
	assert.True(t, ok)
	assert.Equal(t, call, found)

	s.DestroyCall(call)
	_, ok = s.LookupByLinkID("chan0")
	assert.False(t, ok)
}

func TestSinkDummyCallIsLazilyCreatedAndStable(t *testing.T) {
	s := NewSink()
	first, ok := s.DummyCall("chan0")
	assert.True(t, ok)
	second, ok := s.DummyCall("chan0")
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSinkHeldPeerAlwaysMiss(t *testing.T) {
	s := NewSink()
	call := s.NewCall("chan0")
	_, ok := s.HeldPeer(call)
	assert.False(t, ok)
}
