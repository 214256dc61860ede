package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
)

// googleNewsFetcher implements Fetcher for Google News sitemap providers.
type googleNewsFetcher struct {
	client    HTTPClient
	extractor *extract.Feed
}

// NewGoogleNewsFetcher builds a Fetcher for Google News sitemap providers.
// Untitled sitemap entries are dropped.
func NewGoogleNewsFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &googleNewsFetcher{
		client:    client,
		extractor: extract.NewFeed(extract.GoogleNewsSitemap(), extract.WithTitlePolicy(extract.DropUntitled)),
	}
}

// ID returns the provider type for the Google News fetcher.
func (f *googleNewsFetcher) ID() string {
	return ProviderTypeGoogleNews
}

// Fetch retrieves records from a Google News sitemap provider.
func (f *googleNewsFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.SummaryRecord, error) {
	if err := validate(cfg, ProviderTypeGoogleNews); err != nil {
		return nil, err
	}

	records, err := f.fetchSitemap(ctx, cfg, cfg.SourceURL, Headers(cfg), nil)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SummaryRecord{}
	}
	return limitRecords(records, cfg.Limit), nil
}

// fetchSitemap resolves the given sitemap URL into records, following sitemap
// indexes if necessary.
func (f *googleNewsFetcher) fetchSitemap(ctx context.Context, cfg Provider, url string, headers map[string]string, visited map[string]struct{}) ([]domain.SummaryRecord, error) {
	if visited == nil {
		visited = make(map[string]struct{})
	}
	if _, seen := visited[url]; seen {
		return nil, nil
	}
	visited[url] = struct{}{}

	raw, err := FetchDocument(ctx, f.client, url, cfg.ID, headers)
	if err != nil {
		return nil, err
	}

	indexURLs, err := extract.SitemapIndex(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode sitemap index: %w", err)
	}
	if len(indexURLs) == 0 {
		records, err := f.extractor.Extract(string(raw))
		if err != nil {
			return nil, fmt.Errorf("decode google news sitemap: %w", err)
		}
		return records, nil
	}

	var all []domain.SummaryRecord
	for _, indexURL := range indexURLs {
		indexURL = strings.TrimSpace(indexURL)
		if indexURL == "" {
			continue
		}

		nested, err := f.fetchSitemap(ctx, cfg, indexURL, headers, visited)
		if err != nil {
			return nil, err
		}
		all = append(all, nested...)
	}
	return all, nil
}
