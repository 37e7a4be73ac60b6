package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tormodfh/pricc/internal/api/auth"
	"github.com/tormodfh/pricc/internal/cc"
	"github.com/tormodfh/pricc/internal/cc/party"
	"github.com/tormodfh/pricc/internal/cc/q931"
	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cc/rose"
	"github.com/tormodfh/pricc/internal/cc/timer"
)

type fakeScheduler struct{ next q931.TimerHandle }

func (f *fakeScheduler) Schedule(ctx context.Context, ms int, cb func(context.Context)) q931.TimerHandle {
	f.next++
	return f.next
}

func (f *fakeScheduler) Cancel(h q931.TimerHandle) {}

type fakeSlot struct{}

func (s *fakeSlot) Set(kind string, fields map[string]any) {}

type fakeSubSink struct{}

func (fakeSubSink) AllocSlot(ctrl string) q931.Slot { return &fakeSlot{} }

type fakeQ931Sink struct{}

func (fakeQ931Sink) NewCall(channelID string) q931.Call             { return nil }
func (fakeQ931Sink) DestroyCall(c q931.Call)                        {}
func (fakeQ931Sink) LookupByLinkID(linkID string) (q931.Call, bool) { return nil, false }
func (fakeQ931Sink) HeldPeer(c q931.Call) (q931.Call, bool)         { return nil, false }
func (fakeQ931Sink) DummyCall(channelID string) (q931.Call, bool)   { return nil, false }

func newTestController(t *testing.T) *cc.Controller {
	t.Helper()
	cfg := cc.Config{
		ChannelID: "test",
		Dialect:   record.DialectPTMP,
		IsNT:      true,
		CCSupport: true,
		Durations: timer.Durations{TRetentionMs: 1000, TCCBS2Ms: 1000, TCCBS3Ms: 1000},
	}
	return cc.New(cfg, fakeQ931Sink{}, &fakeScheduler{}, fakeSubSink{})
}

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService("0123456789abcdef0123456789abcdef", "pricc-test", time.Minute)
	require.NoError(t, err)
	return svc
}

func TestHealthzIsUnauthenticated(t *testing.T) {
	router := NewRouter(newTestController(t), newTestService(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecordsListIsUnauthenticated(t *testing.T) {
	ctrl := newTestController(t)
	router := NewRouter(ctrl, newTestService(t))

	_, err := ctrl.CCAvailable(context.Background(), nil,
		party.Identity{Number: party.Number{Valid: true, Digits: "1"}},
		party.Identity{Number: party.Number{Valid: true, Digits: "2"}},
		rose.SavedIEs{}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 1)
}

func TestCancelRequiresBearerToken(t *testing.T) {
	router := NewRouter(newTestController(t), newTestService(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/1/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCancelWithTokenReachesController(t *testing.T) {
	svc := newTestService(t)
	router := NewRouter(newTestController(t), svc)

	token, err := svc.IssueToken("operator1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/999/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
