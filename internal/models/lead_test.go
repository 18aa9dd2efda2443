package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForScore(t *testing.T) {
	assert.Equal(t, TierHigh, TierForScore(100))
	assert.Equal(t, TierHigh, TierForScore(80))
	assert.Equal(t, TierMedium, TierForScore(79.9))
	assert.Equal(t, TierMedium, TierForScore(60))
	assert.Equal(t, TierLow, TierForScore(59))
	assert.Equal(t, TierLow, TierForScore(0))
}

func TestLeadMatchLenientDecode(t *testing.T) {
	var matches []LeadMatch
	err := json.Unmarshal([]byte(`[
		{"name":"Alice","phone":91234567,"propertyType":"Condo","relevanceScore":"87.5","personalizedMessage":"Hi Alice"},
		{"name":null,"relevanceScore":null,"extra":{"x":1}}
	]`), &matches)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Alice", matches[0].Name)
	assert.Equal(t, "91234567", matches[0].Phone)
	assert.Equal(t, 87.5, matches[0].RelevanceScore)
	assert.Equal(t, LeadMatch{}, matches[1])
}

func TestLeadMatchDisplayDefaults(t *testing.T) {
	view := LeadMatch{RelevanceScore: 65}.Display(3)

	assert.Equal(t, 3, view.Index)
	assert.Equal(t, DefaultLeadName, view.Name)
	assert.Equal(t, DefaultLeadPhone, view.Phone)
	assert.Equal(t, DefaultPropertyType, view.PropertyType)
	assert.Equal(t, DefaultLeadMessage, view.PersonalizedMessage)
	assert.Equal(t, TierMedium, view.Tier)
}

func TestAttachmentPayload(t *testing.T) {
	a := Attachment{
		Name:         "brochure.pdf",
		MimeCategory: MimeCategoryPDF,
		SizeBytes:    2048,
		TrackingURL:  "https://t.dev/f/abc",
		TrackingID:   "abc",
	}

	p := a.Payload()
	assert.Equal(t, "https://t.dev/f/abc", p.CloudinaryURL)
	assert.Equal(t, "abc", p.PublicID)
	assert.Equal(t, UploadMethodCloudflare, p.UploadMethod)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"brochure.pdf","type":"pdf","size":2048,"cloudinaryUrl":"https://t.dev/f/abc",
		"publicId":"abc","trackingUrl":"https://t.dev/f/abc","trackingId":"abc","uploadMethod":"cloudflare"}`, string(raw))
}
