package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"propertyagent/internal/metrics"
	"propertyagent/internal/models"
	"propertyagent/internal/utils"

	"github.com/apex/log"
)

// LeadMatcher is the matching workflow as seen by a session.
type LeadMatcher interface {
	FindMatches(ctx context.Context, messageContent string, files []models.AttachmentPayload) ([]models.LeadMatch, error)
	MessageSent(ctx context.Context, body models.MessageSentBody) error
	HealthCheck(ctx context.Context) error
}

// WorkflowClient talks to the workflow engine webhooks. Every call is a JSON
// POST of a {"body": {...}} envelope.
type WorkflowClient struct {
	matchURL   string
	sendURL    string
	agentID    string
	httpClient *http.Client
}

func NewWorkflowClient(matchURL, sendURL, agentID string, httpClient *http.Client) *WorkflowClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WorkflowClient{
		matchURL:   matchURL,
		sendURL:    sendURL,
		agentID:    agentID,
		httpClient: httpClient,
	}
}

func (c *WorkflowClient) FindMatches(ctx context.Context, messageContent string, files []models.AttachmentPayload) ([]models.LeadMatch, error) {
	if files == nil {
		files = []models.AttachmentPayload{}
	}
	body := models.MatchLeadsBody{
		Action:         models.ActionMatchLeads,
		MessageContent: messageContent,
		AgentID:        c.agentID,
		UploadedFiles:  files,
	}

	raw, err := c.post(ctx, c.matchURL, models.ActionMatchLeads, body)
	if err != nil {
		return nil, err
	}
	return ParseMatchResponse(raw)
}

func (c *WorkflowClient) MessageSent(ctx context.Context, body models.MessageSentBody) error {
	body.Action = models.ActionMessageSent
	if body.AgentID == "" {
		body.AgentID = c.agentID
	}
	if _, err := c.post(ctx, c.sendURL, models.ActionMessageSent, body); err != nil {
		return NewError(ErrTracking, err, fmt.Sprintf("message_sent tracking failed: %v", err))
	}
	return nil
}

// HealthCheck pings the match endpoint with a health_check action.
func (c *WorkflowClient) HealthCheck(ctx context.Context) error {
	if _, err := c.post(ctx, c.matchURL, models.ActionHealthCheck, models.HealthCheckBody{Action: models.ActionHealthCheck}); err != nil {
		return NewError(ErrTransport, err, fmt.Sprintf("health check failed: %v", err))
	}
	return nil
}

func (c *WorkflowClient) post(ctx context.Context, url, action string, body interface{}) (raw []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream("workflow", action, start, err)
	}()

	payload, err := json.Marshal(models.WorkflowEnvelope{Body: body})
	if err != nil {
		return nil, fmt.Errorf("error encoding %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error building %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	utils.WithFields(log.Fields{"action": action, "url": url}).Debug("calling workflow")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Transport(err, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, Transport(nil, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp)))
	}

	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transport(err, fmt.Sprintf("error reading %s response: %v", action, err))
	}
	return raw, nil
}
