package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Keyword is a single alert rule from the catalog. The description is the
// matching instruction handed verbatim to the LLM; the id is what the model
// is asked to echo back in alertMatches.
type Keyword struct {
	CreatedAt   time.Time
	ID          string
	Name        string
	DisplayName string
	Description string
	Owner       string
}

// NewKeywordID derives a stable identifier from the keyword's machine name.
func NewKeywordID(name string) string {
	hash := sha256.Sum256([]byte(name))
	return fmt.Sprintf("kw_%x", hash[:6])
}
