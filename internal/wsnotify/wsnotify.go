package wsnotify

import (
	"net/http"
	"sync"
	"time"

	"propertyagent/internal/models"

	"github.com/gorilla/websocket"
)

// WebSocketManager fans notifications out to the websocket clients of each
// session. Each connection has its own write lock since gorilla connections
// allow one concurrent writer.
type WebSocketManager struct {
	clients map[string]map[*websocket.Conn]*sync.Mutex
	lock    sync.RWMutex
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func Upgrader() *websocket.Upgrader {
	return &upgrader
}

func NewManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[*websocket.Conn]*sync.Mutex),
	}
}

func (m *WebSocketManager) AddClient(sessionID string, conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.clients[sessionID] == nil {
		m.clients[sessionID] = make(map[*websocket.Conn]*sync.Mutex)
	}
	m.clients[sessionID][conn] = &sync.Mutex{}
}

func (m *WebSocketManager) RemoveClient(sessionID string, conn *websocket.Conn) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.clients[sessionID], conn)
	if len(m.clients[sessionID]) == 0 {
		delete(m.clients, sessionID)
	}
}

// CloseSession disconnects every client of a session.
func (m *WebSocketManager) CloseSession(sessionID string) {
	m.lock.Lock()
	conns := m.clients[sessionID]
	delete(m.clients, sessionID)
	m.lock.Unlock()

	for conn, mu := range conns {
		mu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
			time.Now().Add(time.Second))
		conn.Close()
		mu.Unlock()
	}
}

func (m *WebSocketManager) ClientCount(sessionID string) int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients[sessionID])
}

func (m *WebSocketManager) Broadcast(sessionID string, event interface{}) {
	m.lock.RLock()
	conns := make(map[*websocket.Conn]*sync.Mutex, len(m.clients[sessionID]))
	for client, mu := range m.clients[sessionID] {
		conns[client] = mu
	}
	m.lock.RUnlock()

	for client, mu := range conns {
		mu.Lock()
		client.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err := client.WriteJSON(event)
		mu.Unlock()
		if err != nil {
			client.Close()
			m.RemoveClient(sessionID, client)
		}
	}
}

// Publish sends a notification event to the session's clients.
func (m *WebSocketManager) Publish(sessionID string, n models.Notification) {
	m.Broadcast(sessionID, models.NotificationEvent{
		Type:      "notification",
		SessionID: sessionID,
		Payload:   n,
		SentAt:    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
