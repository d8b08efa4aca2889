package llm

import "strings"

// CleanMarkdownWrapper strips a surrounding markdown code fence from model
// output. Models routinely wrap JSON answers in ```json fences even when
// told not to.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	// Drop the opening fence line, including any language tag
	if idx := strings.Index(content, "\n"); idx >= 0 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}

	// Drop the closing fence
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}
