package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/crawler"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/reader"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
	"github.com/Adda-Baaj/khobor-reader/pkg/providers"
	"github.com/alecthomas/kong"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Logger overrides the configured zap logger. Set before calling Run().
	Logger logger.Logger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("khobor"),
		kong.Description("Extract news summaries and stories from listing pages, feeds and story pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'khobor --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	deps.Config = cfg

	log := m.Logger
	if log == nil {
		if log, err = logger.New(cfg.LogLevel); err != nil {
			return err
		}
	}
	defer func() { _ = log.Sync() }()
	deps.Log = log

	deps.Client = httpclient.NewRestyClient(cfg.HTTPTimeout,
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithRetryCount(cfg.RetryCount),
	)
	deps.Stories = crawler.NewStoryReader(deps.Client, log, crawler.WithWorkers(cfg.StoryWorkers))
	deps.Reader = reader.NewService(providers.DefaultFetcherRegistry(deps.Client), deps.Stories, log)

	return kongCtx.Run(deps)
}
