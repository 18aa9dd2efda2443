package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"propertyagent/internal/models"
)

// StripCodeFence removes a leading ```json (or bare ```) fence and a trailing
// ``` fence from an LLM response. Text without a leading fence is returned trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// ParseMatchResponse turns the raw workflow body into lead matches. It fails
// with ErrEmptyResponse, ErrMalformedResponse or ErrMissingMatches.
func ParseMatchResponse(body []byte) ([]models.LeadMatch, error) {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil, ResponseShape(ErrEmptyResponse, "Empty response from workflow")
	}

	cleaned := StripCodeFence(text)

	var decoded interface{}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, ResponseShape(ErrMalformedResponse, fmt.Sprintf("JSON parse failure: %v", err))
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, ResponseShape(ErrMissingMatches, "Response missing matches array")
	}
	if _, ok := obj["matches"].([]interface{}); !ok {
		return nil, ResponseShape(ErrMissingMatches, "Response missing matches array")
	}

	var envelope struct {
		Matches []json.RawMessage `json:"matches"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, ResponseShape(ErrMalformedResponse, fmt.Sprintf("JSON parse failure: %v", err))
	}

	matches := make([]models.LeadMatch, 0, len(envelope.Matches))
	for _, raw := range envelope.Matches {
		var m models.LeadMatch
		// entries that are not objects degrade to an all-defaults match
		if len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{' {
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, ResponseShape(ErrMalformedResponse, fmt.Sprintf("JSON parse failure: %v", err))
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}
