package main

import (
	"context"
	"io"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/crawler"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/reader"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Log     logger.Logger
	Client  httpclient.Client
	Stories *crawler.StoryReader
	Reader  *reader.Service
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Optional config file (YAML, JSON or TOML)"`

	Listing ListingCmd `cmd:"" help:"Extract summaries from an HTML listing page"`
	Feed    FeedCmd    `cmd:"" help:"Extract summaries from an RSS or Atom feed"`
	Story   StoryCmd   `cmd:"" help:"Extract the article of a single story page"`
	Harvest HarvestCmd `cmd:"" help:"Harvest all configured sources and publish new records"`
}

// ListingCmd is the "listing" subcommand.
type ListingCmd struct {
	URL   string `arg:"" optional:"" help:"Listing page URL"`
	File  string `short:"f" type:"path" help:"Read the page from a local file instead of fetching"`
	Limit int    `short:"n" help:"Keep at most this many items (0 keeps all)"`
}

// FeedCmd is the "feed" subcommand.
type FeedCmd struct {
	URL   string `arg:"" optional:"" help:"Feed URL"`
	File  string `short:"f" type:"path" help:"Read the feed from a local file instead of fetching"`
	Atom  bool   `help:"Treat the document as an Atom feed"`
	Limit int    `short:"n" help:"Keep at most this many items (0 keeps all)"`
}

// StoryCmd is the "story" subcommand.
type StoryCmd struct {
	URL  string `arg:"" optional:"" help:"Story page URL"`
	File string `short:"f" type:"path" help:"Read the page from a local file instead of fetching"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	Sources    string   `help:"Sources file; overrides the configured one"`
	Publishers string   `help:"Publishers file; overrides the configured one"`
	Only       []string `help:"Harvest only these source ids (repeatable)"`
}
