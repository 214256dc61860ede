package store_test

import (
	"path/filepath"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/crawler"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ crawler.StoryCache = (*store.Store)(nil)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "khobor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Seen(t *testing.T) {
	t.Parallel()

	s := openStore(t)
	records := []domain.SummaryRecord{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	unseen, err := s.Unseen("th-premium", records)
	require.NoError(t, err)
	assert.Equal(t, records, unseen)

	require.NoError(t, s.MarkSeen("th-premium", "1", "", "3"))

	unseen, err = s.Unseen("th-premium", records)
	require.NoError(t, err)
	assert.Equal(t, []domain.SummaryRecord{{ID: "2"}}, unseen)

	other, err := s.Unseen("th-business", records)
	require.NoError(t, err)
	assert.Len(t, other, 3)

	require.Error(t, s.MarkSeen("", "1"))
}

func TestStore_Articles(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	_, ok, err := s.GetArticle("https://example.com/article1.ece")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := domain.ArticleRecord{
		Headline:    "Cached",
		ArticleBody: "<p>x</p>",
		Author:      &domain.Author{Name: "Staff"},
	}
	require.NoError(t, s.PutArticle("https://example.com/article1.ece", rec))

	got, ok, err := s.GetArticle("https://example.com/article1.ece")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Nil(t, got.Image)

	require.Error(t, s.PutArticle("", rec))
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := store.Open("  ")
	require.Error(t, err)
}
