package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// sourcesFile represents the structure of the sources configuration file.
type sourcesFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

// SourceRegistry materializes provider definitions loaded from config files.
type SourceRegistry struct {
	mu        sync.RWMutex
	providers []Provider
	idx       map[string]Provider
}

// LoadSources loads the provider definitions from a YAML/JSON file.
// Environment variables in the file are expanded before decoding.
func LoadSources(path string) (*SourceRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseSources([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewSourceRegistry(parsed.Providers)
}

// NewSourceRegistry sanitizes and validates the given providers.
func NewSourceRegistry(providers []Provider) (*SourceRegistry, error) {
	if len(providers) == 0 {
		return nil, errors.New("sources contain no providers entries")
	}

	reg := &SourceRegistry{
		providers: make([]Provider, len(providers)),
		idx:       make(map[string]Provider, len(providers)),
	}
	for i := range providers {
		cfg := sanitizeProvider(providers[i])
		if err := validateProvider(cfg); err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", cfg.ID)
		}
		reg.providers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}
	return reg, nil
}

// parseSources decodes the sources file content based on its extension.
func parseSources(data []byte, ext string) (sourcesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out sourcesFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return sourcesFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

// sanitizeProvider trims and normalizes the provider fields.
func sanitizeProvider(cfg Provider) Provider {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	cfg.SourceURL = strings.TrimSpace(cfg.SourceURL)
	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if len(cfg.Headers) > 0 {
		headers := make(map[string]string, len(cfg.Headers))
		for k, v := range cfg.Headers {
			key, val := strings.TrimSpace(k), strings.TrimSpace(v)
			if key == "" || val == "" {
				continue
			}
			headers[key] = val
		}
		cfg.Headers = headers
	}
	if cfg.RequestDelayMS < 0 {
		cfg.RequestDelayMS = 0
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	return cfg
}

// validateProvider checks that required fields are present.
func validateProvider(cfg Provider) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case ProviderTypeListing, ProviderTypeFeed, ProviderTypeAtom, ProviderTypeGoogleNews:
	case "":
		return fmt.Errorf("type is required for provider %q", cfg.ID)
	default:
		return fmt.Errorf("type %q not supported for provider %q", cfg.Type, cfg.ID)
	}
	if cfg.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", cfg.ID)
	}
	return nil
}

// ByID returns the provider config by id.
func (r *SourceRegistry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[strings.TrimSpace(id)]
	return cfg, ok
}

// All returns all configured providers.
func (r *SourceRegistry) All() []Provider {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Enabled returns providers that are enabled.
func (r *SourceRegistry) Enabled() []Provider {
	all := r.All()
	out := make([]Provider, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
