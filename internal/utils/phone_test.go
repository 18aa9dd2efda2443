package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"local eight digits", "9123 4567", "6591234567"},
		{"formatted with country code", "+65 9123-4567", "6591234567"},
		{"eight digits starting with 6", "61234567", "6561234567"},
		{"leading 8 any length", "812345678901", "65812345678901"},
		{"foreign number untouched", "+1 (415) 555-0100", "14155550100"},
		{"no digits", "No phone", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone))
		})
	}
}
