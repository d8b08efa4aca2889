package model

import "time"

// Placeholders recognized in prompt template content.
const (
	AlertsPlaceholder   = "{alerts}"
	ArticlesPlaceholder = "{articles}"
)

// PromptTemplate is an operator-maintained prompt body. At most one template
// is active at a time; the engine reads it as a snapshot at run start.
type PromptTemplate struct {
	CreatedAt time.Time
	Name      string
	Content   string
	ID        int64
	IsActive  bool
}
