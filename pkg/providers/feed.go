package providers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
)

// feedFetcher downloads XML feeds and extracts their items.
type feedFetcher struct {
	typ       string
	client    HTTPClient
	extractor *extract.Feed
}

// NewFeedFetcher builds a fetcher for RSS feeds.
func NewFeedFetcher(client HTTPClient) Fetcher {
	return newFeedFetcher(ProviderTypeFeed, client, extract.RSSFeed())
}

// NewAtomFetcher builds a fetcher for Atom feeds.
func NewAtomFetcher(client HTTPClient) Fetcher {
	return newFeedFetcher(ProviderTypeAtom, client, extract.AtomFeed())
}

func newFeedFetcher(typ string, client HTTPClient, rules extract.FeedRules) *feedFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &feedFetcher{
		typ:       typ,
		client:    client,
		extractor: extract.NewFeed(rules),
	}
}

func (f *feedFetcher) ID() string {
	return f.typ
}

func (f *feedFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.SummaryRecord, error) {
	if err := validate(cfg, f.typ); err != nil {
		return nil, err
	}

	raw, err := FetchDocument(ctx, f.client, cfg.SourceURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	records, err := f.extractor.Extract(string(raw))
	if err != nil {
		return nil, fmt.Errorf("extract %s feed: %w", cfg.ID, err)
	}
	return limitRecords(records, cfg.Limit), nil
}
