package models

type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"type"`
	Visible bool             `json:"show"`
}

// NotificationEvent is pushed to websocket subscribers of a session.
type NotificationEvent struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Payload   Notification `json:"payload"`
	SentAt    string       `json:"sentAt"`
}
