// Package reader exposes the extraction pipelines as request/response calls
// that always answer with a domain.Result envelope.
package reader

import (
	"context"
	"errors"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
)

// Envelope error messages. Transport failures and unparsable documents are
// reported separately.
const (
	MsgFeedFailed    = "Failed to fetch feed"
	MsgStoryFailed   = "Failed to fetch story"
	MsgScrapeFailed  = "Failed to scrape"
	MsgContentFailed = "Failed to fetch story content"
	MsgMissingURL    = "Missing url parameter"
)

// StoryFetcher reads a single story page.
type StoryFetcher interface {
	Read(ctx context.Context, storyURL string) (domain.ArticleRecord, error)
}

// Service answers summary and story requests.
type Service struct {
	fetchers providers.FetcherRegistry
	stories  StoryFetcher
	log      logger.Logger
}

// NewService builds a Service. A nil logger discards output.
func NewService(fetchers providers.FetcherRegistry, stories StoryFetcher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{fetchers: fetchers, stories: stories, log: log}
}

// Summaries fetches and extracts the summaries of one source. Only a
// transport failure produces an unsuccessful envelope; a page that matches
// nothing succeeds with an empty list.
func (s *Service) Summaries(ctx context.Context, source providers.Provider) domain.Result[[]domain.SummaryRecord] {
	if strings.TrimSpace(source.SourceURL) == "" {
		return domain.Fail[[]domain.SummaryRecord](MsgMissingURL)
	}

	fetcher, err := s.fetchers.FetcherFor(source)
	if err != nil {
		s.log.ErrorObj("no fetcher for source", "fetcher_error", map[string]any{
			"provider_id": source.ID,
			"type":        source.Type,
			"error":       err.Error(),
		})
		return domain.Fail[[]domain.SummaryRecord](MsgFeedFailed)
	}

	records, err := fetcher.Fetch(ctx, source)
	if err != nil {
		s.log.ErrorObj("summary fetch failed", "fetch_error", map[string]any{
			"provider_id": source.ID,
			"url":         source.SourceURL,
			"transport":   errors.Is(err, providers.ErrFetchFailed),
			"error":       err.Error(),
		})
		if errors.Is(err, extract.ErrUnparsable) {
			return domain.Fail[[]domain.SummaryRecord](MsgScrapeFailed)
		}
		return domain.Fail[[]domain.SummaryRecord](MsgFeedFailed)
	}

	s.log.InfoObj("summaries extracted", "fetch_complete", map[string]any{
		"provider_id": source.ID,
		"count":       len(records),
	})
	return domain.OK(records)
}

// Story fetches one story page and extracts its article.
func (s *Service) Story(ctx context.Context, storyURL string) domain.Result[domain.ArticleRecord] {
	storyURL = strings.TrimSpace(storyURL)
	if storyURL == "" {
		return domain.Fail[domain.ArticleRecord](MsgMissingURL)
	}

	rec, err := s.stories.Read(ctx, storyURL)
	if err != nil {
		s.log.ErrorObj("story fetch failed", "story_error", map[string]any{
			"url":   storyURL,
			"error": err.Error(),
		})
		if errors.Is(err, extract.ErrUnparsable) {
			return domain.Fail[domain.ArticleRecord](MsgContentFailed)
		}
		return domain.Fail[domain.ArticleRecord](MsgStoryFailed)
	}
	return domain.OK(rec)
}
