package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name  string
		input string
		env   map[string]string
		want  string
	}{
		{
			name:  "simple substitution with ${VAR}",
			input: "api_key: ${API_KEY}",
			env:   map[string]string{"API_KEY": "secret123"},
			want:  "api_key: secret123",
		},
		{
			name:  "bare $VAR substitution",
			input: "bucket: $BUCKET_NAME",
			env:   map[string]string{"BUCKET_NAME": "covers"},
			want:  "bucket: covers",
		},
		{
			name:  "multiple substitutions in one line",
			input: "url: ${PROTOCOL}://${HOST}:${PORT}",
			env: map[string]string{
				"PROTOCOL": "https",
				"HOST":     "example.com",
				"PORT":     "443",
			},
			want: "url: https://example.com:443",
		},
		{
			name:  "missing variable expands to empty string",
			input: "token: ${MISSING_VAR}",
			env:   map[string]string{},
			want:  "token: ",
		},
		{
			name:  "no variables present is a no-op",
			input: "name: watercolor",
			env:   map[string]string{},
			want:  "name: watercolor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got := ExpandEnv([]byte(tt.input))
			assert.Equal(t, tt.want, string(got))
		})
	}

	t.Run("env actually cleared between subtests", func(t *testing.T) {
		assert.Empty(t, os.Getenv("BUCKET_NAME"))
	})
}
