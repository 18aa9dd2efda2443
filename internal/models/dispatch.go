package models

import "time"

// DispatchRecord is one outbound WhatsApp hand-off, journaled after tracking.
type DispatchRecord struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	AgentID       string    `json:"agentId"`
	LeadName      string    `json:"leadName"`
	Phone         string    `json:"phone"`
	Message       string    `json:"message"`
	WhatsAppURL   string    `json:"whatsappUrl"`
	Tracked       bool      `json:"tracked"`
	TrackingError string    `json:"trackingError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type DispatchResult struct {
	Lead        LeadMatchView `json:"lead"`
	Phone       string        `json:"phone"`
	WhatsAppURL string        `json:"whatsappUrl"`
	QRCode      string        `json:"qrCodeBase64,omitempty"`
}
