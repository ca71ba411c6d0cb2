package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"formatted landline", "(082) 222-8000 ", "0822228000"},
		{"international with spacing", "+63 912-345-6789", "+639123456789"},
		{"already normalized", "+15550001111", "+15550001111"},
		{"interior plus dropped", "12+34", "1234"},
		{"letters only", "call me", ""},
		{"bare plus", "+", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input))
		})
	}
}
