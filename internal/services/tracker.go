package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"propertyagent/internal/models"
	"propertyagent/internal/utils"
)

// TrackerClient uploads files to the tracking edge worker, which stores the
// object and returns a tracked URL for it.
type TrackerClient struct {
	baseURL    string
	agentID    string
	httpClient *http.Client
	now        func() time.Time
}

func NewTrackerClient(baseURL, agentID string, httpClient *http.Client) *TrackerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TrackerClient{
		baseURL:    baseURL,
		agentID:    agentID,
		httpClient: httpClient,
		now:        time.Now,
	}
}

type trackerUploadResponse struct {
	OriginalName string            `json:"originalName"`
	FileSize     models.FlexNumber `json:"fileSize"`
	TrackingURL  string            `json:"trackingUrl"`
	TrackingID   string            `json:"trackingId"`
}

func (c *TrackerClient) Upload(ctx context.Context, file *models.FileUpload) (*models.Attachment, error) {
	defer utils.TimeTrack(time.Now(), "tracker upload "+file.Name)

	body, contentType, err := c.multipartBody(file)
	if err != nil {
		return nil, fmt.Errorf("error building upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, utils.JoinURL(c.baseURL, "/upload"), body)
	if err != nil {
		return nil, fmt.Errorf("error building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Transport(err, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transport(err, fmt.Sprintf("error reading upload response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UploadError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(raw),
		}
	}

	var result trackerUploadResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, ResponseShape(ErrMalformedResponse, fmt.Sprintf("Invalid upload response: %v", err))
	}
	if result.TrackingURL == "" || result.TrackingID == "" {
		return nil, ResponseShape(ErrMissingTracking, "Upload response missing trackingUrl or trackingId")
	}

	return newAttachment(file, result.OriginalName, int64(result.FileSize),
		result.TrackingURL, result.TrackingID, models.UploadMethodCloudflare, c.now()), nil
}

func (c *TrackerClient) multipartBody(file *models.FileUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Name)))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("agentId", c.agentID); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("messageId", newMessageID(c.now())); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Analytics returns the tracker's analytics payload untouched.
func (c *TrackerClient) Analytics(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, utils.JoinURL(c.baseURL, "/analytics"), nil)
	if err != nil {
		return nil, fmt.Errorf("error building analytics request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Transport(err, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, Transport(nil, "Analytics failed: "+statusText(resp))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transport(err, fmt.Sprintf("error reading analytics response: %v", err))
	}
	if !json.Valid(raw) {
		return nil, ResponseShape(ErrMalformedResponse, "Analytics response is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
