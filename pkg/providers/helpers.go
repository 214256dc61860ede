package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// FetchDocument retrieves the raw document at url. Any transport error or
// non-200 status is reported as ErrFetchFailed.
func FetchDocument(ctx context.Context, client httpclient.Client, url, providerID string, headers map[string]string) ([]byte, error) {
	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, providerID, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d body: %s", ErrFetchFailed, providerID, resp.StatusCode(), responseSnippet(body))
	}

	return body, nil
}

// limitRecords keeps at most limit records; a limit <= 0 keeps all.
func limitRecords(records []domain.SummaryRecord, limit int) []domain.SummaryRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}
	return records[:limit]
}

// validate checks the provider is usable by a fetcher of type typ.
func validate(cfg Provider, typ string) error {
	if !strings.EqualFold(cfg.Type, typ) {
		return fmt.Errorf("%s fetcher received incompatible provider type %q", typ, cfg.Type)
	}
	if strings.TrimSpace(cfg.SourceURL) == "" {
		return fmt.Errorf("provider %q source_url is empty", cfg.ID)
	}
	return nil
}
