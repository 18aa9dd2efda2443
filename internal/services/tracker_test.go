package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"propertyagent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, handler http.HandlerFunc) *TrackerClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewTrackerClient(srv.URL, "agent-7", srv.Client())
	client.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return client
}

func TestTrackerUpload(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		assert.Equal(t, "agent-7", r.FormValue("agentId"))
		assert.Equal(t, "cf_msg_1700000000123", r.FormValue("messageId"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "brochure.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"originalName":"Brochure Final.pdf","fileSize":4096,"trackingUrl":"https://t.dev/f/abc","trackingId":"abc"}`))
	})

	att, err := client.Upload(context.Background(), &models.FileUpload{
		Name: "brochure.pdf", MimeType: "application/pdf", Size: 8, Data: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Brochure Final.pdf", att.Name)
	assert.Equal(t, int64(4096), att.SizeBytes)
	assert.Equal(t, models.MimeCategoryPDF, att.MimeCategory)
	assert.Equal(t, "pdf", att.Format)
	assert.Equal(t, "https://t.dev/f/abc", att.TrackingURL)
	assert.Equal(t, "abc", att.TrackingID)
	assert.Equal(t, models.UploadMethodCloudflare, att.UploadMethod)
}

func TestTrackerUploadFallsBackToClientValues(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trackingUrl":"https://t.dev/f/x","trackingId":"x"}`))
	})

	att, err := client.Upload(context.Background(), &models.FileUpload{
		Name: "photo.png", MimeType: "image/png", Size: 3, Data: []byte("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "photo.png", att.Name)
	assert.Equal(t, int64(3), att.SizeBytes)
	assert.Equal(t, models.MimeCategoryImage, att.MimeCategory)
}

func TestTrackerUploadNon2xx(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte("object too big"))
	})

	_, err := client.Upload(context.Background(), &models.FileUpload{Name: "a.pdf", MimeType: "application/pdf", Size: 1, Data: []byte("x")})
	require.Error(t, err)

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusRequestEntityTooLarge, uploadErr.StatusCode)
	assert.Equal(t, "object too big", uploadErr.Body)
	assert.Equal(t, "Cloudflare upload failed: 413 Request Entity Too Large - object too big", err.Error())
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestTrackerUploadMissingTracking(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"originalName":"a.pdf"}`))
	})

	_, err := client.Upload(context.Background(), &models.FileUpload{Name: "a.pdf", MimeType: "application/pdf", Size: 1, Data: []byte("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTracking))
	assert.True(t, errors.Is(err, ErrResponseShape))
}

func TestTrackerAnalytics(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/analytics", r.URL.Path)
		w.Write([]byte(`{"totalFiles":3,"views":[1,2]}`))
	})

	data, err := client.Analytics(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalFiles":3,"views":[1,2]}`, string(data))
}

func TestTrackerAnalyticsFailure(t *testing.T) {
	client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Analytics(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Analytics failed: Service Unavailable", err.Error())
}

func TestTrackerUploadLenientFileSize(t *testing.T) {
	for body, want := range map[string]int64{
		`{"fileSize":"4096","trackingUrl":"https://t.dev/f/a","trackingId":"a"}`: 4096,
		`{"fileSize":2048.0,"trackingUrl":"https://t.dev/f/a","trackingId":"a"}`: 2048,
		`{"fileSize":null,"trackingUrl":"https://t.dev/f/a","trackingId":"a"}`:   5,
		`{"fileSize":"n/a","trackingUrl":"https://t.dev/f/a","trackingId":"a"}`:  5,
	} {
		client := newTestTracker(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		att, err := client.Upload(context.Background(), &models.FileUpload{
			Name: "a.pdf", MimeType: "application/pdf", Size: 5, Data: []byte("%PDF-"),
		})
		require.NoError(t, err, body)
		assert.Equal(t, want, att.SizeBytes, body)
	}
}
