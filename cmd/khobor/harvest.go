package main

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/Adda-Baaj/khobor-reader/internal/crawler"
	"github.com/Adda-Baaj/khobor-reader/internal/harvester"
	"github.com/Adda-Baaj/khobor-reader/internal/store"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
)

// Run executes the harvest command.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	sourcesFile := firstNonEmpty(c.Sources, cfg.SourcesFile)
	sources, err := providers.LoadSources(sourcesFile)
	if err != nil {
		return err
	}
	enabled := sources.Enabled()
	if len(c.Only) > 0 {
		enabled = slices.DeleteFunc(enabled, func(p providers.Provider) bool {
			return !slices.Contains(c.Only, p.ID)
		})
	}
	if len(enabled) == 0 {
		return fmt.Errorf("no enabled sources in %s", sourcesFile)
	}

	pubs, err := buildPublishers(deps, firstNonEmpty(c.Publishers, cfg.PublishersFile))
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.BoltPath)
	if err != nil {
		return err
	}
	defer st.Close()

	stories := crawler.NewStoryReader(deps.Client, deps.Log,
		crawler.WithWorkers(cfg.StoryWorkers),
		crawler.WithCache(st),
	)
	h := harvester.New(providers.DefaultFetcherRegistry(deps.Client), st, pubs, deps.Log,
		harvester.WithEnricher(stories),
		harvester.WithStoryEnrichment(cfg.FetchStories),
	)

	reports, runErr := h.Run(deps.Ctx, enabled)
	if err := writeJSON(deps.Stdout, reports); err != nil {
		return err
	}
	return runErr
}

// buildPublishers loads the enabled publishers. A missing publishers file
// means records are only recorded as seen.
func buildPublishers(deps *Dependencies, path string) (publishers.Fanout, error) {
	reg, err := publishers.LoadRegistry(path)
	if errors.Is(err, fs.ErrNotExist) {
		deps.Log.WarnObj("publishers file not found, harvesting without publishers", "publishers_missing", map[string]any{
			"path": path,
		})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return publishers.BuildAll(deps.Ctx, publishers.DefaultRegistry(), reg.Enabled(), deps.Log)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
