package engine

import (
	"testing"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBatch(ids ...string) []model.Article {
	batch := make([]model.Article, len(ids))
	for i, id := range ids {
		batch[i] = model.Article{
			ID:      id,
			Title:   "Title " + id,
			Content: "Content " + id,
		}
	}
	return batch
}

func testCatalog(ids ...string) []model.Keyword {
	catalog := make([]model.Keyword, len(ids))
	for i, id := range ids {
		catalog[i] = model.Keyword{ID: id, Name: "kw-" + id}
	}
	return catalog
}

func TestParseResponseModernSchema(t *testing.T) {
	raw := `[{
		"id": "a1",
		"threatLevel": "HIGH",
		"threatType": "ransomware",
		"industries": ["automotive"],
		"alertMatches": ["k1"],
		"isSpam": false
	}]`

	results, err := ParseResponse(raw, testBatch("a1"), testCatalog("k1"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "a1", results[0].ArticleID)
	assert.Equal(t, model.ThreatLevelHigh, results[0].ThreatLevel)
	assert.Equal(t, "ransomware", results[0].ThreatType)
	assert.Equal(t, []string{"automotive"}, results[0].Industries)
	assert.Equal(t, []string{"k1"}, results[0].AlertMatches)
	assert.False(t, results[0].IsSpam)
}

func TestParseResponseLegacySchemaEquivalence(t *testing.T) {
	modern := `[{
		"id": "a1",
		"threatLevel": "MEDIUM",
		"threatType": "data breach",
		"industries": ["finance"],
		"alertMatches": ["k1"],
		"isSpam": true
	}]`
	legacy := `[{
		"articleId": "a1",
		"Threat Level": "MEDIUM",
		"Threat Type": "data breach",
		"Affected Industries": ["finance"],
		"Matched Alerts": ["k1"],
		"Is Spam": 1
	}]`

	batch := testBatch("a1")
	catalog := testCatalog("k1")

	modernResults, err := ParseResponse(modern, batch, catalog)
	require.NoError(t, err)
	legacyResults, err := ParseResponse(legacy, batch, catalog)
	require.NoError(t, err)

	assert.Equal(t, modernResults, legacyResults)
}

func TestParseResponseModernKeyWinsOverLegacy(t *testing.T) {
	raw := `[{
		"id": "a1",
		"threatLevel": "LOW",
		"Threat Level": "HIGH"
	}]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelLow, results[0].ThreatLevel)
}

func TestParseResponseIsSpamCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"bool true", "true", true},
		{"bool false", "false", false},
		{"numeric one", "1", true},
		{"numeric zero", "0", false},
		{"string one", `"1"`, true},
		{"string true", `"true"`, true},
		{"string yes", `"yes"`, true},
		{"string no", `"no"`, false},
		{"missing", "null", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[{"id": "a1", "isSpam": ` + tt.value + `}]`
			results, err := ParseResponse(raw, testBatch("a1"), nil)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].IsSpam)
		})
	}
}

func TestParseResponseScalarListCoercion(t *testing.T) {
	raw := `[{"id": "a1", "industries": "automotive", "alertMatches": "k1"}]`

	results, err := ParseResponse(raw, testBatch("a1"), testCatalog("k1"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"automotive"}, results[0].Industries)
	assert.Equal(t, []string{"k1"}, results[0].AlertMatches)
}

func TestParseResponseDropsUnknownKeywordIDs(t *testing.T) {
	raw := `[{"id": "a1", "threatLevel": "HIGH", "alertMatches": ["k1", "k999", "k1"]}]`

	results, err := ParseResponse(raw, testBatch("a1"), testCatalog("k1"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"k1"}, results[0].AlertMatches)
}

func TestParseResponseKeywordNameIsNotAnID(t *testing.T) {
	raw := `[{"id": "a1", "alertMatches": ["kw-k1"]}]`

	results, err := ParseResponse(raw, testBatch("a1"), testCatalog("k1"))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].AlertMatches)
}

func TestParseResponsePositionalFallback(t *testing.T) {
	raw := `[
		{"threatLevel": "HIGH"},
		{"threatLevel": "LOW"}
	]`

	results, err := ParseResponse(raw, testBatch("a1", "a2"), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a1", results[0].ArticleID)
	assert.Equal(t, model.ThreatLevelHigh, results[0].ThreatLevel)
	assert.Equal(t, "a2", results[1].ArticleID)
	assert.Equal(t, model.ThreatLevelLow, results[1].ThreatLevel)
}

func TestParseResponseExplicitUnknownIDSkipped(t *testing.T) {
	raw := `[{"id": "not-in-batch", "threatLevel": "HIGH"}]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseResponseOmittedArticleStaysUnclassified(t *testing.T) {
	raw := `[{"id": "a2", "threatLevel": "LOW"}]`

	results, err := ParseResponse(raw, testBatch("a1", "a2"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a2", results[0].ArticleID)
}

func TestParseResponseDuplicateArticleFirstWins(t *testing.T) {
	raw := `[
		{"id": "a1", "threatLevel": "HIGH"},
		{"id": "a1", "threatLevel": "LOW"}
	]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelHigh, results[0].ThreatLevel)
}

func TestParseResponseDefaults(t *testing.T) {
	raw := `[{"id": "a1"}]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, model.ThreatLevelNone, results[0].ThreatLevel)
	assert.Equal(t, "N/A", results[0].ThreatType)
	assert.Empty(t, results[0].Industries)
	assert.Empty(t, results[0].AlertMatches)
	assert.False(t, results[0].IsSpam)
}

func TestParseResponseUnknownThreatLevelBecomesNone(t *testing.T) {
	raw := `[{"id": "a1", "threatLevel": "catastrophic"}]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelNone, results[0].ThreatLevel)
}

func TestParseResponseLowercaseThreatLevel(t *testing.T) {
	raw := `[{"id": "a1", "threatLevel": "high"}]`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelHigh, results[0].ThreatLevel)
}

func TestParseResponseMarkdownFence(t *testing.T) {
	raw := "```json\n[{\"id\": \"a1\", \"threatLevel\": \"HIGH\"}]\n```"

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelHigh, results[0].ThreatLevel)
}

func TestParseResponseSurroundingProse(t *testing.T) {
	raw := `Here are the classifications you asked for:
[{"id": "a1", "threatLevel": "MEDIUM"}]
Let me know if you need anything else.`

	results, err := ParseResponse(raw, testBatch("a1"), nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ThreatLevelMedium, results[0].ThreatLevel)
}

func TestParseResponseMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "I could not classify these articles."},
		{"object instead of array", `{"id": "a1"}`},
		{"truncated array", `[{"id": "a1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw, testBatch("a1"), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMalformedResponse)
		})
	}
}

func TestParseResponsePreservesBatchOrder(t *testing.T) {
	raw := `[
		{"id": "a3", "threatLevel": "LOW"},
		{"id": "a1", "threatLevel": "HIGH"},
		{"id": "a2", "threatLevel": "MEDIUM"}
	]`

	results, err := ParseResponse(raw, testBatch("a1", "a2", "a3"), nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a1", results[0].ArticleID)
	assert.Equal(t, "a2", results[1].ArticleID)
	assert.Equal(t, "a3", results[2].ArticleID)
}
