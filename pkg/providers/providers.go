package providers

import (
	"context"
	"errors"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

// Source discriminators selecting the extraction pipeline.
const (
	ProviderTypeListing    = "listing"
	ProviderTypeFeed       = "feed"
	ProviderTypeAtom       = "atom"
	ProviderTypeGoogleNews = "google-news-sitemap"
)

// ErrFetchFailed marks a transport failure: the raw document could not be
// obtained. It is the only error the extraction path reports.
var ErrFetchFailed = errors.New("fetch failed")

// HTTPClient is the client the fetchers use to obtain raw documents.
type HTTPClient = httpclient.Client

// Provider is one configured source.
type Provider struct {
	ID             string            `json:"id" yaml:"id"`
	Type           string            `json:"type" yaml:"type"`
	SourceURL      string            `json:"source_url" yaml:"source_url"`
	Enabled        *bool             `json:"enabled" yaml:"enabled"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	RequestDelayMS int               `json:"request_delay_ms" yaml:"request_delay_ms"`
	// Limit bounds the number of summaries kept per fetch; 0 keeps all.
	Limit int `json:"limit" yaml:"limit"`
	// FetchStories enables story page extraction for each summary.
	FetchStories *bool `json:"fetch_stories" yaml:"fetch_stories"`
}

// Fetcher obtains and extracts the summaries of one provider type.
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, cfg Provider) ([]domain.SummaryRecord, error)
}

// FetcherRegistry selects the fetcher for a provider.
type FetcherRegistry interface {
	FetcherFor(cfg Provider) (Fetcher, error)
}

// RequestDelay is the politeness delay between story fetches.
func (p Provider) RequestDelay() time.Duration {
	if p.RequestDelayMS <= 0 {
		return 0
	}
	return time.Duration(p.RequestDelayMS) * time.Millisecond
}

// EnabledValue returns enabled flag defaulting to true.
func (p Provider) EnabledValue() bool {
	if p.Enabled == nil {
		return true
	}
	return *p.Enabled
}

// FetchStoriesValue returns the story fetch flag defaulting to false.
func (p Provider) FetchStoriesValue() bool {
	return p.FetchStories != nil && *p.FetchStories
}

// Headers returns the request headers for the provider, with defaults
// overridden by configured values.
func Headers(cfg Provider) map[string]string {
	headers := map[string]string{
		"Accept": acceptFor(cfg.Type),
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return headers
}

// StoryHeaders returns the headers for the provider's story pages. Story
// pages are always HTML, so Accept defaults to HTML whatever the source type.
func StoryHeaders(cfg Provider) map[string]string {
	return Headers(Provider{Type: ProviderTypeListing, Headers: cfg.Headers})
}

func acceptFor(typ string) string {
	switch typ {
	case ProviderTypeFeed, ProviderTypeAtom, ProviderTypeGoogleNews:
		return "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8"
	default:
		return "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"
	}
}
