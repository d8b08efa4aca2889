package engine

import (
	"strings"
	"testing"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptDefaultTemplate(t *testing.T) {
	articles := []model.Article{
		{ID: "a1", Title: "Car hacked", Content: "Researchers took over a vehicle remotely.", Source: "wired", Link: "https://example.com/a1"},
	}
	catalog := []model.Keyword{
		{ID: "k1", Name: "automotive", DisplayName: "Automotive", Description: "Vehicle and automotive industry threats"},
	}

	prompt := BuildPrompt(articles, catalog, nil)

	assert.NotContains(t, prompt, model.AlertsPlaceholder)
	assert.NotContains(t, prompt, model.ArticlesPlaceholder)
	assert.Contains(t, prompt, `"id": "k1"`)
	assert.Contains(t, prompt, "Vehicle and automotive industry threats")
	assert.Contains(t, prompt, "Article ID: a1")
	assert.Contains(t, prompt, "Title: Car hacked")
	assert.Contains(t, prompt, "Source: wired")
	assert.Contains(t, prompt, "Content: Researchers took over a vehicle remotely.")
}

func TestBuildPromptPlaceholderSubstitution(t *testing.T) {
	template := &model.PromptTemplate{
		Name:    "custom",
		Content: "CATALOG:\n{alerts}\n\nINPUT:\n{articles}\n\nClassify everything.",
	}
	articles := []model.Article{{ID: "a1", Title: "t", Content: "c"}}
	catalog := []model.Keyword{{ID: "k1", Name: "phishing"}}

	prompt := BuildPrompt(articles, catalog, template)

	assert.True(t, strings.HasPrefix(prompt, "CATALOG:\n["))
	assert.Contains(t, prompt, `"id": "k1"`)
	assert.Contains(t, prompt, "Article ID: a1")
	assert.Contains(t, prompt, "Classify everything.")
	assert.NotContains(t, prompt, model.AlertsPlaceholder)
	assert.NotContains(t, prompt, model.ArticlesPlaceholder)
}

func TestBuildPromptAppendsMissingSections(t *testing.T) {
	template := &model.PromptTemplate{
		Name:    "no-placeholders",
		Content: "Classify the articles against the catalog.",
	}
	articles := []model.Article{{ID: "a1", Title: "t", Content: "c"}}
	catalog := []model.Keyword{{ID: "k1", Name: "phishing"}}

	prompt := BuildPrompt(articles, catalog, template)

	assert.True(t, strings.HasPrefix(prompt, "Classify the articles against the catalog."))
	assert.Contains(t, prompt, "Alert keyword catalog:")
	assert.Contains(t, prompt, `"id": "k1"`)
	assert.Contains(t, prompt, "Articles:")
	assert.Contains(t, prompt, "Article ID: a1")
}

func TestBuildPromptEmptyCatalog(t *testing.T) {
	articles := []model.Article{{ID: "a1", Title: "t", Content: "c"}}

	prompt := BuildPrompt(articles, nil, nil)

	assert.Contains(t, prompt, "[]")
	assert.Contains(t, prompt, "Article ID: a1")
}

func TestRenderArticlesOmitsEmptyOptionalFields(t *testing.T) {
	articles := []model.Article{{ID: "a1", Title: "t", Content: "c"}}

	rendered := renderArticles(articles)

	require.Contains(t, rendered, "Article ID: a1")
	assert.NotContains(t, rendered, "Source:")
	assert.NotContains(t, rendered, "Link:")
}

func TestRenderArticlesMultiple(t *testing.T) {
	articles := []model.Article{
		{ID: "a1", Title: "first", Content: "c1"},
		{ID: "a2", Title: "second", Content: "c2"},
	}

	rendered := renderArticles(articles)

	first := strings.Index(rendered, "Article ID: a1")
	second := strings.Index(rendered, "Article ID: a2")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
}
