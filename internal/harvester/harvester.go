// Package harvester runs the periodic pipeline: fetch every enabled source,
// keep records not published before, optionally read their story pages and
// hand one event per record to the configured publishers.
package harvester

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Adda-Baaj/khobor-reader/internal/crawler"
	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
	"golang.org/x/sync/errgroup"
)

const defaultSourceConcurrency = 4

// SeenStore tracks which record ids each source has already published.
type SeenStore interface {
	Unseen(sourceID string, records []domain.SummaryRecord) ([]domain.SummaryRecord, error)
	MarkSeen(sourceID string, ids ...string) error
}

// Report summarizes one source's harvest.
type Report struct {
	ProviderID string `json:"provider_id"`
	Fetched    int    `json:"fetched"`
	New        int    `json:"new"`
	Published  int    `json:"published"`
	Err        error  `json:"-"`
}

// Harvester wires fetchers, the seen store, story enrichment and publishers.
type Harvester struct {
	fetchers     providers.FetcherRegistry
	store        SeenStore
	enricher     crawler.StoryEnricher
	publishers   publishers.Fanout
	log          logger.Logger
	fetchStories bool
	concurrency  int
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithEnricher sets the story reader used for sources with story fetching on.
func WithEnricher(e crawler.StoryEnricher) Option {
	return func(h *Harvester) { h.enricher = e }
}

// WithStoryEnrichment forces story fetching for every source.
func WithStoryEnrichment(on bool) Option {
	return func(h *Harvester) { h.fetchStories = on }
}

// WithConcurrency bounds how many sources are harvested at once.
func WithConcurrency(n int) Option {
	return func(h *Harvester) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// New builds a Harvester.
func New(fetchers providers.FetcherRegistry, store SeenStore, pubs publishers.Fanout, log logger.Logger, opts ...Option) *Harvester {
	if log == nil {
		log = logger.NopLogger{}
	}
	h := &Harvester{
		fetchers:    fetchers,
		store:       store,
		publishers:  pubs,
		log:         log,
		concurrency: defaultSourceConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run harvests every enabled source. A failing source does not stop the
// others; all failures are returned joined, alongside one report per source.
func (h *Harvester) Run(ctx context.Context, sources []providers.Provider) ([]Report, error) {
	var (
		mu      sync.Mutex
		reports = make([]Report, 0, len(sources))
		errs    []error
		g       errgroup.Group
	)
	g.SetLimit(h.concurrency)

	for _, src := range sources {
		if !src.EnabledValue() {
			continue
		}
		g.Go(func() error {
			rep := h.harvestSource(ctx, src)
			mu.Lock()
			reports = append(reports, rep)
			if rep.Err != nil {
				errs = append(errs, rep.Err)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}

func (h *Harvester) harvestSource(ctx context.Context, src providers.Provider) Report {
	rep := Report{ProviderID: src.ID}
	fail := func(err error) Report {
		rep.Err = fmt.Errorf("harvest %s: %w", src.ID, err)
		h.log.ErrorObj("harvest failed", "harvest_error", map[string]any{
			"provider_id": src.ID,
			"error":       err.Error(),
		})
		return rep
	}

	h.log.InfoObj("harvest started", "harvest_start", map[string]any{
		"provider_id": src.ID,
		"type":        src.Type,
		"url":         src.SourceURL,
	})

	fetcher, err := h.fetchers.FetcherFor(src)
	if err != nil {
		return fail(err)
	}

	records, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return fail(err)
	}
	rep.Fetched = len(records)

	records = withIDs(records)
	fresh, err := h.store.Unseen(src.ID, records)
	if err != nil {
		return fail(err)
	}
	rep.New = len(fresh)
	if len(fresh) == 0 {
		h.log.InfoObj("nothing new", "harvest_complete", map[string]any{
			"provider_id": src.ID,
			"fetched":     rep.Fetched,
		})
		return rep
	}

	stories := h.stories(ctx, src, fresh)

	published := make([]string, 0, len(stories))
	var publishErrs []error
	for _, story := range stories {
		if err := h.publish(ctx, src.ID, story); err != nil {
			publishErrs = append(publishErrs, err)
			continue
		}
		published = append(published, story.Summary.ID)
	}
	rep.Published = len(published)

	if err := h.store.MarkSeen(src.ID, published...); err != nil {
		publishErrs = append(publishErrs, err)
	}
	if err := errors.Join(publishErrs...); err != nil {
		return fail(err)
	}

	h.log.InfoObj("harvest finished", "harvest_complete", map[string]any{
		"provider_id": src.ID,
		"fetched":     rep.Fetched,
		"new":         rep.New,
		"published":   rep.Published,
	})
	return rep
}

func (h *Harvester) stories(ctx context.Context, src providers.Provider, summaries []domain.SummaryRecord) []domain.Story {
	if h.enricher != nil && (h.fetchStories || src.FetchStoriesValue()) {
		return h.enricher.Enrich(ctx, src, summaries)
	}
	out := make([]domain.Story, len(summaries))
	for i, s := range summaries {
		out[i] = domain.Story{Summary: s}
	}
	return out
}

// publish delivers the story to every publisher. The record counts as
// published only when all of them accept it.
func (h *Harvester) publish(ctx context.Context, providerID string, story domain.Story) error {
	return h.publishers.Publish(ctx, publishers.NewEvent(providerID, story))
}

// withIDs drops records that carry no id, since they cannot be deduplicated,
// and later copies of an id already in the batch. Order is preserved.
func withIDs(records []domain.SummaryRecord) []domain.SummaryRecord {
	out := records[:0:0]
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}
