package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/llm"
	"github.com/feedsentry/feedsentry/internal/model"
)

// legacyKeys maps historical field names emitted by older prompt/model
// combinations onto the modern flat schema. Applied in order; a modern key
// already present always wins.
var legacyKeys = []struct {
	legacy string
	modern string
}{
	{"articleId", "id"},
	{"article_id", "id"},
	{"Article ID", "id"},
	{"Threat Level", "threatLevel"},
	{"Threat Type", "threatType"},
	{"Affected Industries", "industries"},
	{"Industries", "industries"},
	{"Matched Alerts", "alertMatches"},
	{"Alert Matches", "alertMatches"},
	{"matches", "alertMatches"},
	{"Is Spam", "isSpam"},
	{"Spam", "isSpam"},
}

// ParseResponse parses the model's raw output into one ClassificationResult
// per resolvable input article. Elements are matched to articles by their id
// field when present, falling back to positional order for model outputs
// that omit it. Keyword ids not present in the catalog snapshot are dropped
// silently; articles with no corresponding output are omitted so they stay
// eligible for a future run.
func ParseResponse(raw string, batch []model.Article, catalog []model.Keyword) ([]model.ClassificationResult, error) {
	elements, err := decodeArray(raw)
	if err != nil {
		return nil, err
	}

	validIDs := make(map[string]bool, len(catalog))
	for _, kw := range catalog {
		validIDs[kw.ID] = true
	}

	byID := make(map[string]int, len(batch))
	for i, article := range batch {
		byID[article.ID] = i
	}

	results := make(map[string]model.ClassificationResult, len(elements))
	for i, element := range elements {
		normalized := normalizeKeys(element)

		article, ok := resolveArticle(normalized, batch, byID, i)
		if !ok {
			continue
		}
		if _, seen := results[article.ID]; seen {
			continue
		}

		results[article.ID] = model.ClassificationResult{
			ArticleID:    article.ID,
			ThreatLevel:  parseThreatLevel(normalized["threatLevel"]),
			ThreatType:   parseThreatType(normalized["threatType"]),
			Industries:   coerceStringList(normalized["industries"]),
			AlertMatches: filterKeywordIDs(coerceStringList(normalized["alertMatches"]), validIDs),
			IsSpam:       coerceBool(normalized["isSpam"]),
		}
	}

	// Preserve input batch order in the output
	ordered := make([]model.ClassificationResult, 0, len(results))
	for _, article := range batch {
		if result, ok := results[article.ID]; ok {
			ordered = append(ordered, result)
		}
	}

	return ordered, nil
}

// decodeArray parses the raw model output as a JSON array of objects,
// stripping markdown fences and surrounding prose first.
func decodeArray(raw string) ([]map[string]any, error) {
	content := llm.CleanMarkdownWrapper(raw)

	var elements []map[string]any
	if err := json.Unmarshal([]byte(content), &elements); err == nil {
		return elements, nil
	}

	// Some models wrap the array in explanatory text; extract the outermost
	// array and retry before giving up on the batch.
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(content[start:end+1]), &elements); err == nil {
			return elements, nil
		}
	}

	return nil, fmt.Errorf("%w: response is not a JSON array", common.ErrMalformedResponse)
}

// normalizeKeys reconciles legacy field names onto the modern schema.
func normalizeKeys(element map[string]any) map[string]any {
	normalized := make(map[string]any, len(element))
	for k, v := range element {
		normalized[k] = v
	}

	for _, pair := range legacyKeys {
		legacyVal, hasLegacy := normalized[pair.legacy]
		if !hasLegacy {
			continue
		}
		if _, hasModern := normalized[pair.modern]; !hasModern {
			normalized[pair.modern] = legacyVal
		}
	}

	return normalized
}

// resolveArticle finds the source article for a response element, by id when
// the model provided one, else by position in the batch.
func resolveArticle(element map[string]any, batch []model.Article, byID map[string]int, index int) (model.Article, bool) {
	if id := coerceString(element["id"]); id != "" {
		if idx, ok := byID[id]; ok {
			return batch[idx], true
		}
		// An explicit but unknown id is not trusted positionally
		return model.Article{}, false
	}

	if index < len(batch) {
		return batch[index], true
	}
	return model.Article{}, false
}

// filterKeywordIDs drops any id not present in the catalog snapshot and
// removes duplicates, preserving order. This is the integrity check that
// keeps hallucinated or stale identifiers out of storage.
func filterKeywordIDs(ids []string, validIDs map[string]bool) []string {
	filtered := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !validIDs[id] || seen[id] {
			continue
		}
		seen[id] = true
		filtered = append(filtered, id)
	}
	return filtered
}

func parseThreatLevel(value any) model.ThreatLevel {
	s := strings.ToUpper(strings.TrimSpace(coerceString(value)))
	return model.ParseThreatLevel(s)
}

func parseThreatType(value any) string {
	s := strings.TrimSpace(coerceString(value))
	if s == "" {
		return "N/A"
	}
	return s
}

// coerceString renders a scalar JSON value as a string.
func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// coerceStringList accepts an array or a bare scalar; models sometimes
// return a single string where an array was requested.
func coerceStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(coerceString(item)); s != "" {
				list = append(list, s)
			}
		}
		return list
	default:
		if s := strings.TrimSpace(coerceString(v)); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

// coerceBool accepts a boolean, the numeric 1/0 convention, or their string
// forms.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes":
			return true
		}
	}
	return false
}
