package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"propertyagent/internal/metrics"
	"propertyagent/internal/models"
	"propertyagent/internal/utils"

	"github.com/apex/log"
	"github.com/google/uuid"
)

const (
	DefaultTrackingTimeout = 15 * time.Second
	journalTimeout         = 5 * time.Second
)

// DispatchJournal records WhatsApp dispatches once tracking has completed.
type DispatchJournal interface {
	Save(ctx context.Context, record *models.DispatchRecord) error
}

// Dependencies are shared by every session of the process.
type Dependencies struct {
	AgentID         string
	Gate            *UploadGate
	Uploader        Uploader
	Matcher         LeadMatcher
	Journal         DispatchJournal
	Publisher       NotificationPublisher
	NotificationTTL time.Duration
	TrackingTimeout time.Duration
}

// Session is the state of one agent's compose screen: attachments, the
// current matches, the processing flag and the visible notification.
type Session struct {
	ID        string
	CreatedAt time.Time

	deps     Dependencies
	notifier *Notifier

	mu          sync.Mutex
	attachments []models.Attachment
	matches     []models.LeadMatch
	lastSeen    time.Time
	closed      bool

	processing atomic.Bool
	background sync.WaitGroup
}

func NewSession(id string, deps Dependencies) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		deps:      deps,
		notifier:  NewNotifier(id, deps.NotificationTTL, deps.Publisher),
		lastSeen:  now,
	}
}

func (s *Session) logger() *log.Entry {
	return utils.WithFields(log.Fields{"session": s.ID, "agent": s.deps.AgentID})
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) Notification() models.Notification {
	return s.notifier.Current()
}

func (s *Session) IsProcessing() bool {
	return s.processing.Load()
}

// Upload validates and uploads the files one at a time, in selection order.
// A rejected or failed file is reported and skipped; earlier uploads stay.
func (s *Session) Upload(ctx context.Context, files []models.FileUpload) []models.UploadOutcome {
	s.touch()
	outcomes := make([]models.UploadOutcome, 0, len(files))

	for i := range files {
		file := &files[i]
		outcome := models.UploadOutcome{Name: file.Name}

		if err := s.deps.Gate.Validate(file); err != nil {
			s.notifier.Error(err.Error())
			s.logger().WithField("file", file.Name).Infof("upload rejected: %v", err)
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}

		s.notifier.Info(fmt.Sprintf("🎯 Uploading %s...", file.Name))

		attachment, err := s.uploadOne(ctx, file)
		if err != nil {
			s.notifier.Error(fmt.Sprintf("❌ Failed to upload %s: %v", file.Name, err))
			s.logger().WithField("file", file.Name).Errorf("upload failed: %v", err)
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}

		s.mu.Lock()
		s.attachments = append(s.attachments, *attachment)
		s.mu.Unlock()

		s.notifier.Success(fmt.Sprintf("✅ %s uploaded with tracking!", file.Name))
		metrics.UploadsTotal.WithLabelValues("uploaded").Inc()
		outcome.Uploaded = true
		outcome.Attachment = attachment
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (s *Session) uploadOne(ctx context.Context, file *models.FileUpload) (attachment *models.Attachment, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("storage", "upload", start, err) }()
	return s.deps.Uploader.Upload(ctx, file)
}

func (s *Session) Attachments() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Attachment(nil), s.attachments...)
}

func (s *Session) RemoveAttachment(index int) error {
	s.touch()
	s.mu.Lock()
	if index < 0 || index >= len(s.attachments) {
		s.mu.Unlock()
		return OutOfRange("attachment", index)
	}
	s.attachments = append(s.attachments[:index:index], s.attachments[index+1:]...)
	s.mu.Unlock()

	s.notifier.Info("File removed")
	return nil
}

// FindMatches asks the workflow for leads matching the message and the
// current attachments. A call while another is in flight returns
// ErrMatchInFlight and changes nothing.
func (s *Session) FindMatches(ctx context.Context, messageContent string) (*models.MatchResult, error) {
	s.touch()
	messageContent = strings.TrimSpace(messageContent)
	if messageContent == "" {
		err := Validation("Please enter your message content first")
		s.notifier.Error(err.Message)
		metrics.MatchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if !s.processing.CompareAndSwap(false, true) {
		metrics.MatchRequestsTotal.WithLabelValues("busy").Inc()
		return nil, ErrMatchInFlight
	}
	defer s.processing.Store(false)

	s.notifier.Info("Analyzing message & finding leads...")

	attachments := s.Attachments()
	files := make([]models.AttachmentPayload, 0, len(attachments))
	for _, a := range attachments {
		files = append(files, a.Payload())
	}

	matches, err := s.deps.Matcher.FindMatches(ctx, messageContent, files)
	if err != nil {
		s.notifier.Error("Error finding matches: " + err.Error())
		s.logger().Errorf("error finding matches: %v", err)
		metrics.MatchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.mu.Lock()
	s.matches = matches
	s.mu.Unlock()

	summary := matchSummary(len(matches), len(files))
	s.notifier.Success(summary)
	metrics.MatchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.MatchesReturned.Observe(float64(len(matches)))
	s.logger().Infof("found %d leads with %d files", len(matches), len(files))

	return &models.MatchResult{Matches: displayMatches(matches), TrackedFiles: len(files), Summary: summary}, nil
}

func matchSummary(matches, files int) string {
	fileMsg := ""
	if files > 0 {
		plural := ""
		if files > 1 {
			plural = "s"
		}
		fileMsg = fmt.Sprintf(" with %d tracked file%s", files, plural)
	}
	return fmt.Sprintf("Found %d leads ranked by relevance%s!", matches, fileMsg)
}

func displayMatches(matches []models.LeadMatch) []models.LeadMatchView {
	views := make([]models.LeadMatchView, 0, len(matches))
	for i, m := range matches {
		views = append(views, m.Display(i))
	}
	return views
}

func (s *Session) Matches() []models.LeadMatchView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return displayMatches(s.matches)
}

func (s *Session) EditMessage(index int, message string) (*models.LeadMatchView, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.matches) {
		return nil, OutOfRange("match", index)
	}
	s.matches[index].PersonalizedMessage = message
	view := s.matches[index].Display(index)
	return &view, nil
}

// Dispatch builds the WhatsApp link for one match. message_sent tracking and
// the journal entry happen in the background and never fail the dispatch.
func (s *Session) Dispatch(ctx context.Context, index int, withQR bool) (*models.DispatchResult, error) {
	s.touch()
	s.mu.Lock()
	if index < 0 || index >= len(s.matches) {
		s.mu.Unlock()
		return nil, OutOfRange("match", index)
	}
	match := s.matches[index]
	s.mu.Unlock()

	view := match.Display(index)
	link, digits, err := WhatsAppLink(match.Phone, match.PersonalizedMessage)
	if err != nil {
		err = Validation(fmt.Sprintf("No phone number for %s", view.Name))
		s.notifier.Error(err.Error())
		return nil, err
	}

	result := &models.DispatchResult{Lead: view, Phone: digits, WhatsAppURL: link}
	if withQR {
		qr, err := QRCodeDataURI(link)
		if err != nil {
			s.logger().Warnf("QR code for %s: %v", view.Name, err)
		} else {
			result.QRCode = qr
		}
	}

	record := &models.DispatchRecord{
		ID:          uuid.NewString(),
		SessionID:   s.ID,
		AgentID:     s.deps.AgentID,
		LeadName:    view.Name,
		Phone:       digits,
		Message:     match.PersonalizedMessage,
		WhatsAppURL: link,
		CreatedAt:   time.Now().UTC(),
	}

	s.notifier.Success(fmt.Sprintf("📱 Opening WhatsApp for %s", view.Name))

	// Add must not race with Close waiting on the group
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger().WithField("lead", view.Name).Warn("session closed, dispatch not tracked")
		return result, nil
	}
	s.background.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.background.Done()
		s.track(context.WithoutCancel(ctx), record)
	}()

	return result, nil
}

// track reports the dispatch to the workflow, then journals it. The journal
// write gets its own deadline so a hung tracking call still leaves a record.
func (s *Session) track(ctx context.Context, record *models.DispatchRecord) {
	timeout := s.deps.TrackingTimeout
	if timeout <= 0 {
		timeout = DefaultTrackingTimeout
	}
	trackCtx, cancelTrack := context.WithTimeout(ctx, timeout)
	err := s.deps.Matcher.MessageSent(trackCtx, models.MessageSentBody{
		LeadName: record.LeadName,
		Phone:    record.Phone,
		Message:  record.Message,
		AgentID:  record.AgentID,
	})
	cancelTrack()

	record.Tracked = err == nil
	if err != nil {
		record.TrackingError = err.Error()
		s.logger().WithField("lead", record.LeadName).Warnf("dispatch %s not tracked: %v", record.ID, err)
	}
	metrics.DispatchesTotal.WithLabelValues(fmt.Sprint(record.Tracked)).Inc()

	if s.deps.Journal == nil {
		return
	}
	saveCtx, cancelSave := context.WithTimeout(ctx, journalTimeout)
	defer cancelSave()
	if err := s.deps.Journal.Save(saveCtx, record); err != nil {
		s.logger().Errorf("error saving dispatch %s: %v", record.ID, err)
	}
}

// Analytics fetches the storage analytics payload and reports the outcome.
func (s *Session) Analytics(ctx context.Context) (json.RawMessage, error) {
	s.touch()
	s.notifier.Info("Loading analytics...")
	data, err := s.deps.Uploader.Analytics(ctx)
	if err != nil {
		s.notifier.Error("Failed to load analytics: " + err.Error())
		return nil, err
	}
	s.notifier.Success("Analytics loaded successfully")
	return data, nil
}

func (s *Session) ClearAll() {
	s.touch()
	s.mu.Lock()
	s.attachments = nil
	s.matches = nil
	s.mu.Unlock()

	s.notifier.Info("All content cleared")
}

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	attachments := append([]models.Attachment{}, s.attachments...)
	matches := displayMatches(s.matches)
	s.mu.Unlock()

	return models.SessionSnapshot{
		ID:           s.ID,
		AgentID:      s.deps.AgentID,
		Attachments:  attachments,
		Matches:      matches,
		IsProcessing: s.processing.Load(),
		Notification: s.notifier.Current(),
		CreatedAt:    s.CreatedAt,
	}
}

// Close stops the notification timer and waits for background tracking.
// Dispatches after Close are not tracked.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.notifier.Stop()
	s.background.Wait()
}
