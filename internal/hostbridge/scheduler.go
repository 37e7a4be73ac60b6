// Package hostbridge provides a minimal, standalone implementation of
// the q931 host contracts for running pricc without an embedding Q.931
// stack: a real wall-clock timer scheduler, and a Sink that logs call
// lifecycle events instead of driving a live D-channel. Production
// deployments embed the controller with a real Q.931 engine in place of
// this package.
package hostbridge

import (
	"context"
	"sync"
	"time"

	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/logger"
)

// Scheduler is a q931.Scheduler backed by time.AfterFunc.
type Scheduler struct {
	mu     sync.Mutex
	timers map[q931.TimerHandle]*time.Timer
	next   q931.TimerHandle
}

// NewScheduler builds a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[q931.TimerHandle]*time.Timer)}
}

// Schedule arms a one-shot timer that invokes cb after ms milliseconds.
func (s *Scheduler) Schedule(ctx context.Context, ms int, cb func(context.Context)) q931.TimerHandle {
	s.mu.Lock()
	s.next++
	handle := s.next
	s.mu.Unlock()

	t := time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		s.mu.Lock()
		delete(s.timers, handle)
		s.mu.Unlock()
		cb(ctx)
	})

	s.mu.Lock()
	s.timers[handle] = t
	s.mu.Unlock()

	return handle
}

// Cancel stops a previously armed timer, if it has not already fired.
func (s *Scheduler) Cancel(h q931.TimerHandle) {
	s.mu.Lock()
	t, ok := s.timers[h]
	if ok {
		delete(s.timers, h)
	}
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// call is the Sink's bookkeeping for a call leg it was asked to create;
// it owns no real bearer, only an id and its APDU queue target.
type call struct {
	id string
}

func (c *call) ID() string { return c.id }

func (c *call) QueueAPDU(target q931.MsgType, payload []byte, resp *q931.ResponseDescriptor) {
	logger.Debug("hostbridge queue apdu", "call_id", c.id, "target", target, "bytes", len(payload))
}

func (c *call) SendFacilityNow() error {
	logger.Debug("hostbridge send facility", "call_id", c.id)
	return nil
}

func (c *call) Send(msg q931.MsgType) error {
	logger.Debug("hostbridge send message", "call_id", c.id, "msg_type", msg)
	return nil
}

// Sink is a standalone q931.Sink: it tracks call ids it was asked to
// create without driving any real bearer channel, logging everything
// instead. It has no way to originate inbound events on its own — those
// must be injected through the controller's inbound methods by whatever
// embeds this package.
type Sink struct {
	mu    sync.Mutex
	calls map[string]*call
	dummy map[string]*call
}

// NewSink builds a standalone Sink.
func NewSink() *Sink {
	return &Sink{calls: make(map[string]*call), dummy: make(map[string]*call)}
}

func (s *Sink) NewCall(channelID string) q931.Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &call{id: channelID}
	s.calls[channelID] = c
	return c
}

func (s *Sink) DestroyCall(c q931.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.calls, c.ID())
}

func (s *Sink) LookupByLinkID(linkID string) (q931.Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[linkID]
	return c, ok
}

func (s *Sink) HeldPeer(c q931.Call) (q931.Call, bool) {
	return nil, false
}

func (s *Sink) DummyCall(channelID string) (q931.Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.dummy[channelID]
	if !ok {
		c = &call{id: channelID + "#dummy"}
		s.dummy[channelID] = c
	}
	return c, true
}
