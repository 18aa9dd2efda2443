package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"propertyagent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Notification
}

func (p *recordingPublisher) Publish(sessionID string, n models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, n)
}

func (p *recordingPublisher) Events() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Notification(nil), p.events...)
}

func TestNotifierAutoDismiss(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier("s1", 20*time.Millisecond, pub)

	n.Success("done")
	assert.Equal(t, models.Notification{Message: "done", Kind: models.NotificationSuccess, Visible: true}, n.Current())

	require.Eventually(t, func() bool { return len(pub.Events()) == 2 }, time.Second, 5*time.Millisecond)
	assert.False(t, n.Current().Visible)
	assert.Equal(t, "done", n.Current().Message)

	events := pub.Events()
	require.Len(t, events, 2)
	assert.True(t, events[0].Visible)
	assert.False(t, events[1].Visible)
}

func TestNotifierReplacementKeepsNewestVisible(t *testing.T) {
	n := NewNotifier("s1", 200*time.Millisecond, nil)

	n.Info("first")
	time.Sleep(120 * time.Millisecond)
	n.Error("second")
	// the first notification's timer would have fired by now
	time.Sleep(120 * time.Millisecond)

	current := n.Current()
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, models.NotificationError, current.Kind)
	assert.True(t, current.Visible)

	require.Eventually(t, func() bool { return !n.Current().Visible }, time.Second, 5*time.Millisecond)
}

func TestNotifierStop(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier("s1", 10*time.Millisecond, pub)

	n.Info("hello")
	n.Stop()
	time.Sleep(30 * time.Millisecond)

	assert.True(t, n.Current().Visible)
	assert.Len(t, pub.Events(), 1)
}

func TestNotifierDropsOutOfOrderDelivery(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier("s1", time.Minute, pub)
	defer n.Stop()

	n.publish(2, models.Notification{Message: "second", Visible: true})
	n.publish(1, models.Notification{Message: "first", Visible: true})
	n.publish(2, models.Notification{Message: "second", Visible: false})

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].Message)
	assert.False(t, events[1].Visible)
}

func TestNotifierConcurrentShowEndsOnCurrent(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier("s1", time.Minute, pub)
	defer n.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n.Info(fmt.Sprintf("note %d", i))
		}(i)
	}
	wg.Wait()

	events := pub.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, n.Current(), events[len(events)-1])
}
