package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(idleTTL time.Duration) *SessionManager {
	return NewSessionManager(Dependencies{
		AgentID:  "sarah-lim-001",
		Gate:     NewUploadGate(0),
		Uploader: &mockUploader{},
		Matcher:  &mockMatcher{},
	}, idleTTL)
}

func TestSessionManagerLifecycle(t *testing.T) {
	sm := newTestManager(time.Hour)

	s := sm.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, sm.Count())

	got, err := sm.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, sm.Delete(s.ID))
	_, err = sm.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, sm.Delete(s.ID), ErrSessionNotFound)
}

func TestSessionManagerEvictIdle(t *testing.T) {
	sm := newTestManager(time.Hour)
	stale := sm.Create()
	fresh := sm.Create()

	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	assert.Equal(t, 1, sm.EvictIdle(time.Now().Add(-time.Hour)))

	_, err := sm.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = sm.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestSessionManagerRunStopsOnCancel(t *testing.T) {
	sm := newTestManager(time.Millisecond)
	sm.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sm.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return sm.Count() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionManagerCloseAll(t *testing.T) {
	sm := newTestManager(time.Hour)
	sm.Create()
	sm.Create()

	sm.CloseAll()
	assert.Equal(t, 0, sm.Count())
}
