package crawler

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
)

// StoryEnricher attaches extracted articles to crawled summaries.
type StoryEnricher interface {
	Enrich(ctx context.Context, cfg providers.Provider, summaries []domain.SummaryRecord) []domain.Story
}

var _ StoryEnricher = (*StoryReader)(nil)
