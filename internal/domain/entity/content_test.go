package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTone(t *testing.T) {
	tests := []struct {
		in      string
		want    Tone
		wantErr bool
	}{
		{in: "", want: ToneProfessional},
		{in: "professional", want: ToneProfessional},
		{in: " Witty ", want: ToneWitty},
		{in: "TECHNICAL", want: ToneTechnical},
		{in: "sarcastic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTone(tt.in)
			if tt.wantErr {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, "tone", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTone_Valid(t *testing.T) {
	assert.True(t, ToneTechnical.Valid())
	assert.False(t, Tone("").Valid())
	assert.False(t, Tone("loud").Valid())
}

func TestValidateContent(t *testing.T) {
	require.NoError(t, ValidateContent("some text"))

	err := ValidateContent("   \n\t")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	err = ValidateContent(strings.Repeat("x", MaxContentLength+1))
	assert.ErrorContains(t, err, "must not exceed")
}

func TestValidateImportURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/post"},
		{name: "valid http URL with query", url: "http://example.com/post?id=1"},
		{name: "empty URL", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/file", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImportURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "title", Message: "required"}
	assert.Equal(t, "validation error on field 'title': required", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
