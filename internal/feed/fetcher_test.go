package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedsentry/feedsentry/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Car hacked</title>
      <link>https://example.com/car</link>
      <description>Researchers took over a vehicle remotely.</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Quarterly spam roundup</title>
      <link>https://example.com/spam</link>
      <description>Buy now!</description>
      <pubDate>Tue, 03 Jun 2025 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

// captureStore emulates duplicate detection by id, like the real storage.
type captureStore struct {
	saved map[string]model.Article
	err   error
}

func newCaptureStore() *captureStore {
	return &captureStore{saved: make(map[string]model.Article)}
}

func (s *captureStore) SaveArticles(_ context.Context, articles []model.Article) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	inserted := 0
	for _, article := range articles {
		if _, ok := s.saved[article.ID]; ok {
			continue
		}
		s.saved[article.ID] = article
		inserted++
	}
	return inserted, nil
}

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchAllStoresNewArticles(t *testing.T) {
	server := rssServer(t, sampleRSS)
	store := newCaptureStore()
	fetcher := NewFetcher(store, "")

	stored, skipped, err := fetcher.FetchAll(context.Background(), []Source{
		{Name: "test-feed", URL: server.URL},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Zero(t, skipped)
	require.Len(t, store.saved, 2)

	for _, article := range store.saved {
		assert.Equal(t, "test-feed", article.Source)
		assert.NotEmpty(t, article.ID)
		assert.NotEmpty(t, article.Content)
		assert.False(t, article.PublishedAt.IsZero())
		assert.False(t, article.Classified())
	}
}

func TestFetchAllSkipsDuplicatesOnRefetch(t *testing.T) {
	server := rssServer(t, sampleRSS)
	store := newCaptureStore()
	fetcher := NewFetcher(store, "")

	sources := []Source{{Name: "test-feed", URL: server.URL}}

	stored, skipped, err := fetcher.FetchAll(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)
	assert.Zero(t, skipped)

	stored, skipped, err = fetcher.FetchAll(context.Background(), sources)
	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Equal(t, 2, skipped)
}

func TestFetchAllSourceFailureIsolated(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)
	good := rssServer(t, sampleRSS)

	store := newCaptureStore()
	fetcher := NewFetcher(store, "")

	stored, _, err := fetcher.FetchAll(context.Background(), []Source{
		{Name: "broken", URL: broken.URL},
		{Name: "good", URL: good.URL},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, stored)
}

func TestFetchAllStoreFailureIsolated(t *testing.T) {
	server := rssServer(t, sampleRSS)
	store := newCaptureStore()
	store.err = errors.New("database locked")
	fetcher := NewFetcher(store, "")

	stored, skipped, err := fetcher.FetchAll(context.Background(), []Source{
		{Name: "test-feed", URL: server.URL},
	})

	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Zero(t, skipped)
}

func TestFetchAllContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(newCaptureStore(), "")
	_, _, err := fetcher.FetchAll(ctx, []Source{{Name: "test", URL: "http://127.0.0.1:0"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchAllBadFeedBody(t *testing.T) {
	server := rssServer(t, "this is not xml")
	store := newCaptureStore()
	fetcher := NewFetcher(store, "")

	stored, _, err := fetcher.FetchAll(context.Background(), []Source{
		{Name: "test-feed", URL: server.URL},
	})

	require.NoError(t, err)
	assert.Zero(t, stored)
	assert.Empty(t, store.saved)
}
