package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"matches\":[]}\n```", `{"matches":[]}`},
		{"bare fence", "```\n{\"matches\":[]}\n```", `{"matches":[]}`},
		{"no fence", `  {"matches":[]}  `, `{"matches":[]}`},
		{"unterminated fence", "```json {\"matches\":[]}", `{"matches":[]}`},
		{"fence on one line", "```json{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestParseMatchResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		wantLen int
	}{
		{"empty", "", ErrEmptyResponse, 0},
		{"whitespace only", "  \n\t ", ErrEmptyResponse, 0},
		{"not json", "sorry, I cannot help", ErrMalformedResponse, 0},
		{"fenced garbage", "```json\n{matches: [}\n```", ErrMalformedResponse, 0},
		{"object without matches", `{"leads":[]}`, ErrMissingMatches, 0},
		{"matches not array", `{"matches":{"name":"A"}}`, ErrMissingMatches, 0},
		{"matches null", `{"matches":null}`, ErrMissingMatches, 0},
		{"top level array", `[{"name":"A"}]`, ErrMissingMatches, 0},
		{"empty matches", `{"matches":[]}`, nil, 0},
		{"fenced matches", "```json\n{\"matches\":[{\"name\":\"A\",\"relevanceScore\":91},{\"name\":\"B\"}]}\n```", nil, 2},
		{"non object entry", `{"matches":["oops",{"name":"B"}]}`, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := ParseMatchResponse([]byte(tt.body))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, errors.Is(err, ErrResponseShape))
				assert.Nil(t, matches)
				return
			}
			require.NoError(t, err)
			assert.Len(t, matches, tt.wantLen)
		})
	}
}

func TestParseMatchResponseKeepsOrderAndFields(t *testing.T) {
	matches, err := ParseMatchResponse([]byte("```json\n" + `{"matches":[
		{"name":"Alice","phone":"9123 4567","propertyType":"Condo","relevanceScore":92,"personalizedMessage":"Hi Alice"},
		{"name":"Bob","relevanceScore":55}
	]}` + "\n```"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "Alice", matches[0].Name)
	assert.Equal(t, "9123 4567", matches[0].Phone)
	assert.Equal(t, 92.0, matches[0].RelevanceScore)
	assert.Equal(t, "Bob", matches[1].Name)
	assert.Empty(t, matches[1].PersonalizedMessage)
}
