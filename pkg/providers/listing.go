package providers

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
)

// listingFetcher scrapes HTML listing pages.
type listingFetcher struct {
	client    HTTPClient
	extractor *extract.Listing
}

// NewListingFetcher builds a fetcher for HTML listing pages using the given
// rules. Nil rules default to The Hindu listing markup.
func NewListingFetcher(client HTTPClient, rules extract.ListingRules) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &listingFetcher{
		client:    client,
		extractor: extract.NewListing(rules),
	}
}

func (f *listingFetcher) ID() string {
	return ProviderTypeListing
}

func (f *listingFetcher) Fetch(ctx context.Context, cfg Provider) ([]domain.SummaryRecord, error) {
	if err := validate(cfg, ProviderTypeListing); err != nil {
		return nil, err
	}

	raw, err := FetchDocument(ctx, f.client, cfg.SourceURL, cfg.ID, Headers(cfg))
	if err != nil {
		return nil, err
	}

	records, err := f.extractor.Extract(string(raw))
	if err != nil {
		return nil, fmt.Errorf("extract %s listing: %w", cfg.ID, err)
	}
	return limitRecords(records, cfg.Limit), nil
}
