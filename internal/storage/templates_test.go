package storage_test

import (
	"context"
	"testing"

	"github.com/feedsentry/feedsentry/internal/common"
	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/feedsentry/feedsentry/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveTemplateNone(t *testing.T) {
	store := testutil.SetupTestDB(t)

	tmpl, err := store.GetActiveTemplate(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tmpl)
}

func TestCreateTemplateSetsID(t *testing.T) {
	store := testutil.SetupTestDB(t)

	tmpl := model.PromptTemplate{Name: "v1", Content: "Classify {articles} against {alerts}."}
	require.NoError(t, store.CreateTemplate(context.Background(), &tmpl))
	assert.NotZero(t, tmpl.ID)
	assert.False(t, tmpl.IsActive)
}

func TestCreateTemplateValidation(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.Error(t, store.CreateTemplate(ctx, nil))
	require.Error(t, store.CreateTemplate(ctx, &model.PromptTemplate{Name: "", Content: "x"}))
	require.Error(t, store.CreateTemplate(ctx, &model.PromptTemplate{Name: "x", Content: ""}))
}

func TestActivateTemplateExclusivity(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := model.PromptTemplate{Name: "v1", Content: "first {alerts} {articles}"}
	second := model.PromptTemplate{Name: "v2", Content: "second {alerts} {articles}"}
	require.NoError(t, store.CreateTemplate(ctx, &first))
	require.NoError(t, store.CreateTemplate(ctx, &second))

	require.NoError(t, store.ActivateTemplate(ctx, "v1"))

	active, err := store.GetActiveTemplate(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "v1", active.Name)

	// Activating another template deactivates the previous one
	require.NoError(t, store.ActivateTemplate(ctx, "v2"))

	active, err = store.GetActiveTemplate(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "v2", active.Name)

	templates, err := store.GetTemplates(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, tmpl := range templates {
		if tmpl.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestActivateTemplateMissing(t *testing.T) {
	store := testutil.SetupTestDB(t)

	err := store.ActivateTemplate(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
