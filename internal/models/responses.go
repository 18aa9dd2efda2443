package models

import (
	"encoding/json"
	"net/http"
	"time"
)

type APIResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"-"`
}

func (r *APIResponse) MarshalJSON() ([]byte, error) {
	type Alias APIResponse
	return json.Marshal(&struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias:     (*Alias)(r),
		Timestamp: r.Timestamp.Format(time.RFC3339),
	})
}

func NewSuccessResponse(message string, data interface{}) *APIResponse {
	return &APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func NewErrorResponse(message string) *APIResponse {
	return &APIResponse{
		Status:    "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewBusyResponse answers a match request made while another is in flight.
func NewBusyResponse(message string) *APIResponse {
	return &APIResponse{
		Status:    "busy",
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

type SessionSnapshot struct {
	ID           string          `json:"id"`
	AgentID      string          `json:"agentId"`
	Attachments  []Attachment    `json:"attachments"`
	Matches      []LeadMatchView `json:"matches"`
	IsProcessing bool            `json:"isProcessing"`
	Notification Notification    `json:"notification"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// UploadOutcome reports one file of a batch upload, in selection order.
type UploadOutcome struct {
	Name       string      `json:"name"`
	Uploaded   bool        `json:"uploaded"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type MatchResult struct {
	Matches      []LeadMatchView `json:"matches"`
	TrackedFiles int             `json:"trackedFiles"`
	Summary      string          `json:"summary"`
}

type StatusResponse struct {
	Workflow string `json:"workflow"`
	Storage  string `json:"storage"`
	AgentID  string `json:"agentId"`
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, response *APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
