package handlers

import (
	"net/http"
	"time"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
	"propertyagent/internal/wsnotify"
)

// SessionWebSocket streams the session's notifications, starting with the
// current one.
func (h *HTTPHandler) SessionWebSocket(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := wsnotify.Upgrader().Upgrade(w, r, nil)
	if err != nil {
		utils.LogWarning("Websocket upgrade failed for %s: %v", session.ID, err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(models.NotificationEvent{
		Type:      "notification",
		SessionID: session.ID,
		Payload:   session.Notification(),
		SentAt:    time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		conn.Close()
		return
	}

	h.ws.AddClient(session.ID, conn)
	defer func() {
		h.ws.RemoveClient(session.ID, conn)
		conn.Close()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
