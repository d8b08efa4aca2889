package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain json untouched",
			content: `[{"id": "a1"}]`,
			want:    `[{"id": "a1"}]`,
		},
		{
			name:    "json fence",
			content: "```json\n[{\"id\": \"a1\"}]\n```",
			want:    `[{"id": "a1"}]`,
		},
		{
			name:    "bare fence",
			content: "```\n[1, 2]\n```",
			want:    "[1, 2]",
		},
		{
			name:    "leading whitespace",
			content: "  \n```json\n{}\n```  ",
			want:    "{}",
		},
		{
			name:    "unclosed fence",
			content: "```json\n[true]",
			want:    "[true]",
		},
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdownWrapper(tt.content))
		})
	}
}
