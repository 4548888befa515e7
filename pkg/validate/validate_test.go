package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "Valid email", value: "user@example.com", want: true},
		{name: "Mixed case", value: "User@Example.com", want: true},
		{name: "Missing domain", value: "user@", want: false},
		{name: "Missing at sign", value: "userexample.com", want: false},
		{name: "Empty", value: "", want: false},
		{name: "Whitespace only", value: "   ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Email(tt.value)
			assert.Equal(t, tt.want, result.IsValid)
			if !tt.want {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "Valid password", value: "Password123", want: true},
		{name: "Too short", value: "Pw1", want: false},
		{name: "No upper case", value: "password123", want: false},
		{name: "No lower case", value: "PASSWORD123", want: false},
		{name: "No digit", value: "PasswordABC", want: false},
		{name: "Exactly six characters", value: "Pass12", want: true},
		{name: "Empty", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Password(tt.value).IsValid)
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "Valid name", value: "New User", want: true},
		{name: "Two characters", value: "Jo", want: true},
		{name: "One character", value: "J", want: false},
		{name: "Whitespace padding", value: "  A  ", want: false},
		{name: "Empty", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.value).IsValid)
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "Plain digits", value: "5551234567", want: true},
		{name: "With separators", value: "555-123-4567", want: true},
		{name: "International", value: "+1 555 123 4567", want: true},
		{name: "Too short", value: "1234", want: false},
		{name: "Letters", value: "call-me-maybe", want: false},
		{name: "Empty", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.value).IsValid)
		})
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "HTTPS", value: "https://example.com", want: true},
		{name: "HTTP with path", value: "http://example.com/about", want: true},
		{name: "Missing scheme", value: "example.com", want: false},
		{name: "Unsupported scheme", value: "ftp://example.com", want: false},
		{name: "Empty", value: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.value).IsValid)
		})
	}
}

func TestRequired(t *testing.T) {
	assert.True(t, Required("value", "field").IsValid)
	assert.False(t, Required("", "field").IsValid)
	assert.False(t, Required("   ", "field").IsValid)
	assert.Equal(t, "comment is required", Required("", "comment").Message)
}
