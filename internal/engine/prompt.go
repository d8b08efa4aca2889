package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feedsentry/feedsentry/internal/model"
)

// defaultTemplate is used when no prompt template is active. The id-only
// instruction for alertMatches is stated twice on purpose: models are
// unreliable about identifiers, and the parser still re-validates every id
// against the catalog snapshot afterwards.
const defaultTemplate = `Review the news articles below against the alert keyword catalog and classify each one.

Alert keyword catalog:
{alerts}

Articles:
{articles}

For EVERY article above, produce one JSON object with these fields:
- "id": the article's identifier, copied exactly from its "Article ID" line
- "threatLevel": one of "HIGH", "MEDIUM", "LOW", "NONE"
- "threatType": a short phrase naming the threat (e.g. "ransomware", "data breach"), or "N/A"
- "industries": array of affected industry names, empty if none
- "alertMatches": array of ids of matching alert keywords from the catalog above. Always return the keyword's id, never its name or description. If no keywords match, return an empty array.
- "isSpam": true if the article is promotional or junk content, false otherwise

Respond with ONLY a JSON array containing one object per input article, in the same order as the articles appear above. Do not include markdown formatting or commentary. Remember: alertMatches must contain keyword ids only, never description text.`

// promptKeyword is the catalog entry shape serialized into the prompt.
type promptKeyword struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// BuildPrompt merges the active template (or the built-in default) with the
// serialized keyword catalog and article batch. If a template lacks a
// placeholder the corresponding section is appended instead, so configured
// templates can never silently drop data.
func BuildPrompt(articles []model.Article, catalog []model.Keyword, template *model.PromptTemplate) string {
	alerts := renderCatalog(catalog)
	articleBlocks := renderArticles(articles)

	content := defaultTemplate
	if template != nil {
		content = template.Content
	}

	if strings.Contains(content, model.AlertsPlaceholder) {
		content = strings.ReplaceAll(content, model.AlertsPlaceholder, alerts)
	} else {
		content += "\n\nAlert keyword catalog:\n" + alerts
	}

	if strings.Contains(content, model.ArticlesPlaceholder) {
		content = strings.ReplaceAll(content, model.ArticlesPlaceholder, articleBlocks)
	} else {
		content += "\n\nArticles:\n" + articleBlocks
	}

	return content
}

// renderCatalog serializes the keyword catalog so the model can reference
// ids unambiguously.
func renderCatalog(catalog []model.Keyword) string {
	entries := make([]promptKeyword, len(catalog))
	for i, kw := range catalog {
		entries[i] = promptKeyword{
			ID:          kw.ID,
			Name:        kw.Name,
			DisplayName: kw.DisplayName,
			Description: kw.Description,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		// []promptKeyword cannot fail to marshal; guard anyway
		return "[]"
	}
	return string(data)
}

// renderArticles serializes each article as a labeled block.
func renderArticles(articles []model.Article) string {
	var b strings.Builder
	for i, article := range articles {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Article ID: %s\n", article.ID)
		fmt.Fprintf(&b, "Title: %s\n", article.Title)
		if article.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", article.Source)
		}
		if article.Link != "" {
			fmt.Fprintf(&b, "Link: %s\n", article.Link)
		}
		fmt.Fprintf(&b, "Content: %s\n", article.Content)
	}
	return b.String()
}
