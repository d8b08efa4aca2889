package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// ThreatLevel indicates the severity assigned to an article by classification.
type ThreatLevel string

const (
	// ThreatLevelHigh marks articles describing active, severe threats.
	ThreatLevelHigh ThreatLevel = "HIGH"
	// ThreatLevelMedium marks articles describing notable but contained threats.
	ThreatLevelMedium ThreatLevel = "MEDIUM"
	// ThreatLevelLow marks articles with minor security relevance.
	ThreatLevelLow ThreatLevel = "LOW"
	// ThreatLevelNone marks articles with no security relevance.
	ThreatLevelNone ThreatLevel = "NONE"
)

// ParseThreatLevel returns the ThreatLevel for s, or ThreatLevelNone if s is
// not a recognized level.
func ParseThreatLevel(s string) ThreatLevel {
	switch ThreatLevel(s) {
	case ThreatLevelHigh, ThreatLevelMedium, ThreatLevelLow, ThreatLevelNone:
		return ThreatLevel(s)
	default:
		return ThreatLevelNone
	}
}

// Article represents a single ingested feed entry. The identity and content
// fields are immutable once stored; the classification fields are owned by
// the classification engine and written exactly once per successful run.
type Article struct {
	PublishedAt  time.Time
	CreatedAt    time.Time
	LastUpdated  time.Time
	ClassifiedAt *time.Time
	ID           string
	Title        string
	Content      string
	Link         string
	Source       string
	ThreatLevel  ThreatLevel
	ThreatType   string
	Industries   []string
	AlertMatches []string
	IsSpam       bool
	IsRead       bool
	IsSaved      bool
}

// GenerateID creates a stable identifier for duplicate detection across
// feeds that republish the same entry.
func (a *Article) GenerateID() string {
	data := fmt.Sprintf("%s|%s", a.Title, a.Link)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:16])
}

// Classified reports whether the article has been through a successful
// classification. An empty AlertMatches is a legitimate classification
// outcome, so only ClassifiedAt is authoritative here.
func (a *Article) Classified() bool {
	return a.ClassifiedAt != nil
}
