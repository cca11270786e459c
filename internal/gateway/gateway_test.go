package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/ledger"
	"github.com/abhisek/nudge/internal/session"
)

type fakeRemote struct {
	mu    sync.Mutex
	got   []Payload
	err   error
	block chan struct{} // when set, the first send waits on it
}

func (f *fakeRemote) PushProgress(ctx context.Context, p Payload) error {
	f.mu.Lock()
	block := f.block
	f.block = nil
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, p)
	return f.err
}

func (f *fakeRemote) payloads() []Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Payload(nil), f.got...)
}

var testSession = session.Session{UserID: "u1", AppID: "app"}

func payloadFor(t *testing.T, interactionID string, cursor int) Payload {
	t.Helper()
	st := &ledger.SequenceState{Progress: []ledger.ItemImpression{}, CurrentIndex: cursor}
	p, err := NewPayload(testSession, interactionID, card.KindFlashcards, st)
	require.NoError(t, err)
	return p
}

func flush(t *testing.T, g *Gateway) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, g.Flush(ctx))
}

func TestPush_SendsPayload(t *testing.T) {
	remote := &fakeRemote{}
	g := New(remote, Config{}, nil)
	defer g.Close()

	g.Push(payloadFor(t, "deck", 1))
	flush(t, g)

	got := remote.payloads()
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, "app", got[0].AppID)
	assert.Equal(t, "deck", got[0].InteractionID)
	assert.Equal(t, 1, g.Stats().Sent)
}

func TestPush_CoalescesPerInteraction(t *testing.T) {
	release := make(chan struct{})
	remote := &fakeRemote{block: release}
	g := New(remote, Config{}, nil)
	defer g.Close()

	// The first payload occupies the worker while the rest queue up.
	g.Push(payloadFor(t, "warmup", 0))
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.inflight
	}, time.Second, 5*time.Millisecond)

	for i := 1; i <= 3; i++ {
		g.Push(payloadFor(t, "deck", i))
	}
	g.Push(payloadFor(t, "quiz", 1))
	close(release)
	flush(t, g)

	got := remote.payloads()
	require.Len(t, got, 3)
	assert.Equal(t, "warmup", got[0].InteractionID)
	assert.Equal(t, "deck", got[1].InteractionID)
	assert.Equal(t, "quiz", got[2].InteractionID)

	var st ledger.SequenceState
	require.NoError(t, json.Unmarshal(got[1].State, &st))
	assert.Equal(t, 3, st.CurrentIndex, "newest snapshot wins")
	assert.Equal(t, 2, g.Stats().Coalesced)
}

func TestPush_FailureIsLoggedNotRetried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	remote := &fakeRemote{err: errors.New("boom")}
	g := New(remote, Config{}, zap.New(core))
	defer g.Close()

	g.Push(payloadFor(t, "deck", 1))
	flush(t, g)

	assert.Len(t, remote.payloads(), 1)
	assert.Equal(t, 1, g.Stats().Failed)

	entries := logs.FilterMessage("progress sync failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "deck", entries[0].ContextMap()["interaction_id"])
}

func TestPush_AfterCloseIsDropped(t *testing.T) {
	remote := &fakeRemote{}
	g := New(remote, Config{}, nil)
	g.Close()

	g.Push(payloadFor(t, "deck", 1))
	assert.Empty(t, remote.payloads())
	assert.Equal(t, 1, g.Stats().Dropped)

	// Closing twice is safe.
	g.Close()
}

func TestClose_DrainsPending(t *testing.T) {
	remote := &fakeRemote{}
	g := New(remote, Config{DrainTimeout: time.Second}, nil)

	g.Push(payloadFor(t, "a", 1))
	g.Push(payloadFor(t, "b", 1))
	g.Close()

	assert.Len(t, remote.payloads(), 2)
}

func TestNewPayload_CompletedFlag(t *testing.T) {
	st := &ledger.ChecklistState{Items: []ledger.ItemState{{ItemID: "a", Checked: true}}, Completed: true}
	p, err := NewPayload(testSession, "cl", card.KindChecklist, st)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	assert.JSONEq(t, `{"items":[{"item_id":"a","checked":true}],"completed":true}`, string(p.State))
}
