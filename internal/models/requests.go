package models

const (
	ActionMatchLeads  = "match_leads"
	ActionMessageSent = "message_sent"
	ActionHealthCheck = "health_check"
)

// WorkflowEnvelope wraps every call to the workflow engine in a "body" key.
type WorkflowEnvelope struct {
	Body interface{} `json:"body"`
}

type MatchLeadsBody struct {
	Action         string              `json:"action"`
	MessageContent string              `json:"messageContent"`
	AgentID        string              `json:"agentId"`
	UploadedFiles  []AttachmentPayload `json:"uploadedFiles"`
}

type MessageSentBody struct {
	Action   string `json:"action"`
	LeadName string `json:"leadName"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	AgentID  string `json:"agentId"`
}

type HealthCheckBody struct {
	Action string `json:"action"`
}

type FindMatchesRequest struct {
	MessageContent string `json:"messageContent" example:"New 3-bedroom condo in Bishan, S$1.45M" swagger:"required"`
}

type EditMessageRequest struct {
	Message string `json:"message" example:"Hi Alice, a new listing near you..." swagger:"required"`
}
