package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/extract"
	"github.com/Adda-Baaj/khobor-reader/internal/reader"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
)

var errNoInput = errors.New("either a URL argument or --file is required")

// Run executes the listing command.
func (c *ListingCmd) Run(deps *Dependencies) error {
	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("read %s: %w", c.File, err)
		}
		records, err := extract.NewListing(nil).Extract(string(raw))
		if err != nil {
			return writeJSON(deps.Stdout, domain.Fail[[]domain.SummaryRecord](reader.MsgScrapeFailed))
		}
		return writeJSON(deps.Stdout, domain.OK(limit(records, c.Limit)))
	}
	if c.URL == "" {
		return errNoInput
	}

	res := deps.Reader.Summaries(deps.Ctx, providers.Provider{
		ID:        "cli",
		Type:      providers.ProviderTypeListing,
		SourceURL: c.URL,
		Limit:     c.Limit,
	})
	return writeJSON(deps.Stdout, res)
}

// Run executes the feed command.
func (c *FeedCmd) Run(deps *Dependencies) error {
	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("read %s: %w", c.File, err)
		}
		var rules extract.FeedRules
		if c.Atom {
			rules = extract.AtomFeed()
		}
		records, err := extract.NewFeed(rules).Extract(string(raw))
		if err != nil {
			return writeJSON(deps.Stdout, domain.Fail[[]domain.SummaryRecord](reader.MsgScrapeFailed))
		}
		return writeJSON(deps.Stdout, domain.OK(limit(records, c.Limit)))
	}
	if c.URL == "" {
		return errNoInput
	}

	typ := providers.ProviderTypeFeed
	if c.Atom {
		typ = providers.ProviderTypeAtom
	}
	res := deps.Reader.Summaries(deps.Ctx, providers.Provider{
		ID:        "cli",
		Type:      typ,
		SourceURL: c.URL,
		Limit:     c.Limit,
	})
	return writeJSON(deps.Stdout, res)
}

// Run executes the story command.
func (c *StoryCmd) Run(deps *Dependencies) error {
	if c.File != "" {
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("read %s: %w", c.File, err)
		}
		rec, err := extract.NewArticle(nil).Extract(string(raw), c.URL)
		if err != nil {
			return writeJSON(deps.Stdout, domain.Fail[domain.ArticleRecord](reader.MsgContentFailed))
		}
		return writeJSON(deps.Stdout, domain.OK(rec))
	}
	return writeJSON(deps.Stdout, deps.Reader.Story(deps.Ctx, c.URL))
}

func limit(records []domain.SummaryRecord, n int) []domain.SummaryRecord {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[:n]
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
