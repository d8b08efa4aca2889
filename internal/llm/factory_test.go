package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic", Config{Provider: "anthropic", APIKey: "test-key"}, false},
		{"openai", Config{Provider: "openai", APIKey: "test-key"}, false},
		{"case insensitive", Config{Provider: "Anthropic", APIKey: "test-key"}, false},
		{"unknown provider", Config{Provider: "llama-at-home", APIKey: "test-key"}, true},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"openai without key", Config{Provider: "openai"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestAnthropicClientDefaults(t *testing.T) {
	client, err := newAnthropicClient(Config{APIKey: "test-key"})
	require.NoError(t, err)

	ac, ok := client.(*anthropicClient)
	require.True(t, ok)
	assert.Equal(t, "claude-3-5-haiku-20241022", ac.model)
	assert.InDelta(t, 0.2, ac.temperature, 0.001)
	assert.Equal(t, 2048, ac.maxTokens)
}
