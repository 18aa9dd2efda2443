package services

import (
	"context"
	"encoding/json"
	"sync"

	"propertyagent/internal/models"
)

type mockUploader struct {
	UploadFn    func(ctx context.Context, file *models.FileUpload) (*models.Attachment, error)
	AnalyticsFn func(ctx context.Context) (json.RawMessage, error)

	mu    sync.Mutex
	names []string
}

func (m *mockUploader) Upload(ctx context.Context, file *models.FileUpload) (*models.Attachment, error) {
	m.mu.Lock()
	m.names = append(m.names, file.Name)
	m.mu.Unlock()
	if m.UploadFn != nil {
		return m.UploadFn(ctx, file)
	}
	return newAttachment(file, "", 0, "https://t.dev/f/"+file.Name, "id-"+file.Name, models.UploadMethodCloudflare, fixedNow), nil
}

func (m *mockUploader) Analytics(ctx context.Context) (json.RawMessage, error) {
	if m.AnalyticsFn != nil {
		return m.AnalyticsFn(ctx)
	}
	return json.RawMessage(`{}`), nil
}

func (m *mockUploader) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

type mockMatcher struct {
	FindMatchesFn func(ctx context.Context, messageContent string, files []models.AttachmentPayload) ([]models.LeadMatch, error)
	MessageSentFn func(ctx context.Context, body models.MessageSentBody) error
	HealthCheckFn func(ctx context.Context) error

	mu        sync.Mutex
	findCalls int
	sent      []models.MessageSentBody
}

func (m *mockMatcher) FindMatches(ctx context.Context, messageContent string, files []models.AttachmentPayload) ([]models.LeadMatch, error) {
	m.mu.Lock()
	m.findCalls++
	m.mu.Unlock()
	if m.FindMatchesFn != nil {
		return m.FindMatchesFn(ctx, messageContent, files)
	}
	return nil, nil
}

func (m *mockMatcher) MessageSent(ctx context.Context, body models.MessageSentBody) error {
	m.mu.Lock()
	m.sent = append(m.sent, body)
	m.mu.Unlock()
	if m.MessageSentFn != nil {
		return m.MessageSentFn(ctx, body)
	}
	return nil
}

func (m *mockMatcher) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return nil
}

func (m *mockMatcher) FindCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls
}

func (m *mockMatcher) Sent() []models.MessageSentBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.MessageSentBody(nil), m.sent...)
}

type memoryJournal struct {
	mu      sync.Mutex
	records []models.DispatchRecord
}

func (j *memoryJournal) Save(ctx context.Context, record *models.DispatchRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, *record)
	return nil
}

func (j *memoryJournal) Records() []models.DispatchRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.DispatchRecord(nil), j.records...)
}
