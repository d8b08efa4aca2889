package model

// ClassificationResult is the normalized output of the response parser for a
// single article. AlertMatches has already been filtered against the catalog
// snapshot, so every id in it existed when the run started.
type ClassificationResult struct {
	ArticleID    string
	ThreatLevel  ThreatLevel
	ThreatType   string
	Industries   []string
	AlertMatches []string
	IsSpam       bool
}
