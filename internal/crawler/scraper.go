package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
)

const (
	maxHTMLBodyBytes = 4 << 20 // 4 MiB
	maxStoryWorkers  = 10
)

// StoryCache keeps extracted articles keyed by story url.
type StoryCache interface {
	GetArticle(storyURL string) (domain.ArticleRecord, bool, error)
	PutArticle(storyURL string, rec domain.ArticleRecord) error
}

// StoryReader fetches story pages and extracts their articles.
type StoryReader struct {
	client    httpclient.Client
	log       logger.Logger
	extractor *extract.Article
	cache     StoryCache
	workers   int
}

// Option configures a StoryReader.
type Option func(*StoryReader)

// WithCache stores and reuses extracted articles.
func WithCache(c StoryCache) Option {
	return func(r *StoryReader) { r.cache = c }
}

// WithWorkers bounds concurrent story fetches; values outside 1..10 are clamped.
func WithWorkers(n int) Option {
	return func(r *StoryReader) { r.workers = min(max(n, 1), maxStoryWorkers) }
}

// WithArticleRules swaps the story page markup rules.
func WithArticleRules(rules extract.ArticleRules) Option {
	return func(r *StoryReader) { r.extractor = extract.NewArticle(rules) }
}

// NewStoryReader creates a StoryReader with the given HTTP client and logger.
func NewStoryReader(client httpclient.Client, log logger.Logger, opts ...Option) *StoryReader {
	if client == nil {
		client = providers.DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	r := &StoryReader{
		client:    client,
		log:       log,
		extractor: extract.NewArticle(nil),
		workers:   maxStoryWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enrich fetches the story page of every summary. A story that fails keeps
// its summary with a nil Article; partial results are returned on cancel.
func (r *StoryReader) Enrich(ctx context.Context, cfg providers.Provider, summaries []domain.SummaryRecord) []domain.Story {
	delay := cfg.RequestDelay()
	out := make([]domain.Story, len(summaries))
	for i, s := range summaries {
		out[i] = domain.Story{Summary: s}
	}

	if len(summaries) == 0 {
		return out
	}

	workerCount := min(len(summaries), r.workers)

	var limiter <-chan time.Time
	if delay > 0 {
		ticker := time.NewTicker(delay)
		limiter = ticker.C
		defer ticker.Stop()
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := range workerCount {
		wg.Add(1)
		go r.storyWorker(ctx, cfg, limiter, jobCh, out, &wg, workerID)
	}

	for idx := range summaries {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobCh <- idx:
		case <-ctx.Done():
		}
	}
	close(jobCh)

	wg.Wait()

	return out
}

// storyWorker processes stories from the job channel, respecting the rate limiter.
func (r *StoryReader) storyWorker(
	ctx context.Context,
	cfg providers.Provider,
	limiter <-chan time.Time,
	jobCh <-chan int,
	out []domain.Story,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	headers := providers.StoryHeaders(cfg)
	for idx := range jobCh {
		if ctx.Err() != nil {
			return
		}

		if limiter != nil {
			select {
			case <-ctx.Done():
				return
			case <-limiter:
			}
		}

		summary := out[idx].Summary
		storyURL := resolveURL(summary.URL, cfg.SourceURL)
		rec, err := r.read(ctx, cfg.ID, storyURL, headers, workerID)
		if err != nil {
			r.log.WarnObj("story scrape failed", "story_error", map[string]any{
				"worker_id":   workerID,
				"provider_id": cfg.ID,
				"url":         storyURL,
				"error":       err.Error(),
			})
			continue
		}
		if rec.Image != nil {
			img := domain.Image{URL: resolveURL(rec.Image.URL, storyURL)}
			rec.Image = &img
		}
		out[idx].Article = &rec
	}
}

// Read fetches one story page and extracts its article.
func (r *StoryReader) Read(ctx context.Context, storyURL string) (domain.ArticleRecord, error) {
	return r.read(ctx, "story", storyURL, nil, 0)
}

func (r *StoryReader) read(ctx context.Context, providerID, storyURL string, headers map[string]string, workerID int) (domain.ArticleRecord, error) {
	if storyURL == "" {
		return domain.ArticleRecord{}, fmt.Errorf("story url is empty")
	}

	if r.cache != nil {
		if rec, ok, err := r.cache.GetArticle(storyURL); err == nil && ok {
			return rec, nil
		} else if err != nil {
			r.log.WarnObj("story cache read failed", "cache_error", map[string]any{
				"url":   storyURL,
				"error": err.Error(),
			})
		}
	}

	r.log.DebugObj("scraping story", "scrape_start", map[string]any{
		"worker_id":   workerID,
		"provider_id": providerID,
		"url":         storyURL,
	})

	body, err := providers.FetchDocument(ctx, r.client, storyURL, providerID, headers)
	if err != nil {
		return domain.ArticleRecord{}, err
	}

	if len(body) > maxHTMLBodyBytes {
		r.log.InfoObj("html body truncated", "truncation", map[string]any{
			"worker_id":   workerID,
			"provider_id": providerID,
			"url":         storyURL,
			"original":    len(body),
			"kept":        maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	rec, err := r.extractor.Extract(string(body), storyURL)
	if err != nil {
		return domain.ArticleRecord{}, err
	}

	if r.cache != nil {
		if err := r.cache.PutArticle(storyURL, rec); err != nil {
			r.log.WarnObj("story cache write failed", "cache_error", map[string]any{
				"url":   storyURL,
				"error": err.Error(),
			})
		}
	}
	return rec, nil
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}

	return baseURL.ResolveReference(parsed).String()
}
