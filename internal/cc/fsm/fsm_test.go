package fsm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tormodfh/pricc/internal/cc/apdu"
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/subcommand"
	"github.com/tormodfh/pricc/internal/cc/timer"
)

type fakeScheduler struct {
	next   q931.TimerHandle
	armed  map[q931.TimerHandle]bool
	lastMs map[q931.TimerHandle]int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: map[q931.TimerHandle]bool{}, lastMs: map[q931.TimerHandle]int{}}
}

func (f *fakeScheduler) Schedule(ctx context.Context, ms int, cb func(context.Context)) q931.TimerHandle {
	f.next++
	f.armed[f.next] = true
	f.lastMs[f.next] = ms
	return f.next
}

func (f *fakeScheduler) Cancel(h q931.TimerHandle) {
	delete(f.armed, h)
}

type fakeSlot struct {
	kind   string
	fields map[string]any
}

func (s *fakeSlot) Set(kind string, fields map[string]any) {
	s.kind = kind
	s.fields = fields
}

type fakeSink struct {
	slots []*fakeSlot
}

func (s *fakeSink) AllocSlot(ctrl string) q931.Slot {
	slot := &fakeSlot{}
	s.slots = append(s.slots, slot)
	return slot
}

func (s *fakeSink) kindsEmitted() []string {
	var out []string
	for _, sl := range s.slots {
		out = append(out, sl.kind)
	}
	return out
}

func newTestDeps() (*Deps, *fakeSink, *fakeScheduler) {
	sink := &fakeSink{}
	sched := newFakeScheduler()
	queues := map[uint16]*apdu.Queue{}
	return &Deps{
		Scheduler: sched,
		Emitter:   subcommand.New("test", sink),
		Durations: timer.Durations{TCCBS2Ms: 1000, TCCBS3Ms: 1000, TCCBS1Ms: 1000, TRetentionMs: 1000, TResponseMs: 1000},
		QueueOf: func(r *record.Record) *apdu.Queue {
			q, ok := queues[r.RecordID]
			if !ok {
				q = apdu.New()
				queues[r.RecordID] = q
			}
			return q
		},
	}, sink, sched
}

func TestPTMPAgentOfferToActivated(t *testing.T) {
	deps, sink, _ := newTestDeps()
	r := record.NewForOffer(1, record.DialectPTMP, false, nil, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvMsgAlerting))
	assert.Equal(t, record.StateAvailable, r.State)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvCCRequest))
	assert.Equal(t, record.StateRequested, r.State)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvCCRequestAccept))
	assert.Equal(t, record.StateActivated, r.State)
	assert.Contains(t, sink.kindsEmitted(), string(subcommand.KindReqRsp))
}

func TestPTMPAgentRetentionTimeoutCancels(t *testing.T) {
	deps, sink, _ := newTestDeps()
	r := record.NewForOffer(1, record.DialectPTMP, false, nil, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)
	Dispatch(context.Background(), deps, r, EvMsgAlerting)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvTimeoutTRetention))
	assert.True(t, r.FSMComplete)
	assert.Contains(t, sink.kindsEmitted(), string(subcommand.KindCancel))
}

func TestPTMPAgentSupervisionTimeoutStopsTimersBeforeDestruct(t *testing.T) {
	deps, _, _ := newTestDeps()
	r := record.NewForOffer(1, record.DialectPTMP, false, nil, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)
	r.State = record.StateActivated
	Dispatch(context.Background(), deps, r, EvAStatus) // starts a poll round (arms T_CCBS1), still in Activated

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvTimeoutTSupervision))
	assert.True(t, r.FSMComplete)
	assert.Equal(t, q931.TimerHandle(0), r.TSupervision)
}

func TestPTMPAgentSpuriousEventIsNoOp(t *testing.T) {
	deps, _, _ := newTestDeps()
	r := record.NewForOffer(1, record.DialectPTMP, false, nil, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)

	err := Dispatch(context.Background(), deps, r, EvRecall)
	assert.Error(t, err)
	assert.Equal(t, record.StatePendingAvailable, r.State)
	assert.False(t, r.FSMComplete)
}

func TestUnknownDialectRoleDestroysAsNoFSM(t *testing.T) {
	deps, _, _ := newTestDeps()
	r := record.NewForOffer(1, record.Dialect(99), false, nil, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)

	err := Dispatch(context.Background(), deps, r, EvAvailable)
	assert.Error(t, err)
	assert.True(t, r.FSMComplete)
}

func TestPTMPMonitorActivationRoundTrip(t *testing.T) {
	deps, sink, _ := newTestDeps()
	r := record.NewForMonitorAvailability(2, record.DialectPTMP, false, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvCCRequest))
	assert.Equal(t, record.StateRequested, r.State)

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvCCRequestAccept))
	assert.Equal(t, record.StateActivated, r.State)
	assert.Contains(t, sink.kindsEmitted(), string(subcommand.KindReqRsp))
}

func TestQSIGAgentRemoteUserFreeSwitchesToRetain(t *testing.T) {
	deps, _, _ := newTestDeps()
	r := record.NewForAgentRequest(3, record.DialectQSIG, false, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)
	r.State = record.StateActivated

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvRemoteUserFree))
	assert.True(t, r.Option.RetainSignalingLink)
	assert.Equal(t, record.StateWaitCallback, r.State)
}

func TestPTPAgentSignalingGoneWhileActivatedCancels(t *testing.T) {
	deps, sink, _ := newTestDeps()
	r := record.NewForAgentRequest(4, record.DialectPTP, false, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)
	r.State = record.StateActivated

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvSignalingGone))
	assert.True(t, r.FSMComplete)
	assert.Contains(t, sink.kindsEmitted(), string(subcommand.KindCancel))
}

func TestQSIGMonitorSignalingGoneOnlyDisassociates(t *testing.T) {
	deps, _, _ := newTestDeps()
	r := record.NewForMonitorAvailability(5, record.DialectQSIG, false, partyIdentityFixture(), partyIdentityFixture(), roseSavedIEsFixture(), nil)
	r.State = record.StateActivated

	assert.NoError(t, Dispatch(context.Background(), deps, r, EvSignalingGone))
	assert.False(t, r.FSMComplete)
	assert.Equal(t, record.StateActivated, r.State)
}
