package services

import (
	"sync"
	"time"

	"propertyagent/internal/models"
)

const DefaultNotificationTTL = 4 * time.Second

// NotificationPublisher pushes notification changes to a session's subscribers.
type NotificationPublisher interface {
	Publish(sessionID string, n models.Notification)
}

// Notifier holds the single visible notification of a session. A new
// notification replaces the current one and restarts the dismissal timer.
type Notifier struct {
	mu        sync.Mutex
	current   models.Notification
	gen       uint64
	timer     *time.Timer
	ttl       time.Duration
	sessionID string
	publisher NotificationPublisher

	// sendMu orders deliveries; published is the newest generation sent
	sendMu    sync.Mutex
	published uint64
}

func NewNotifier(sessionID string, ttl time.Duration, publisher NotificationPublisher) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{
		ttl:       ttl,
		sessionID: sessionID,
		publisher: publisher,
	}
}

func (n *Notifier) Info(message string)    { n.Show(models.NotificationInfo, message) }
func (n *Notifier) Success(message string) { n.Show(models.NotificationSuccess, message) }
func (n *Notifier) Error(message string)   { n.Show(models.NotificationError, message) }

func (n *Notifier) Show(kind models.NotificationKind, message string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.current = models.Notification{Message: message, Kind: kind, Visible: true}
	n.timer = time.AfterFunc(n.ttl, func() { n.dismiss(gen) })
	current := n.current
	n.mu.Unlock()

	n.publish(gen, current)
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.current.Visible {
		n.mu.Unlock()
		return
	}
	n.current.Visible = false
	current := n.current
	n.mu.Unlock()

	n.publish(gen, current)
}

func (n *Notifier) Current() models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stop cancels a pending dismissal without publishing.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// publish drops a notification older than one already delivered, so
// subscribers never end on a stale state.
func (n *Notifier) publish(gen uint64, current models.Notification) {
	if n.publisher == nil {
		return
	}
	n.sendMu.Lock()
	defer n.sendMu.Unlock()
	if gen < n.published {
		return
	}
	n.published = gen
	n.publisher.Publish(n.sessionID, current)
}
