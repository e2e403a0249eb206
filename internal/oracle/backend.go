// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/movie-recommender/pkg/types"
)

// NewBackend returns the provider backend selected by cfg. A missing API key
// is reported as ErrMissingCredential so callers can fail at startup.
func NewBackend(cfg types.OracleConfig, client *http.Client) (Oracle, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	provider := cfg.Provider
	if provider == "" {
		provider = types.ProviderOpenAI
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured for provider %q", ErrMissingCredential, provider)
	}

	switch provider {
	case types.ProviderOpenAI:
		return &OpenAIBackend{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxRetries:  cfg.MaxRetries,
			BaseURL:     cfg.BaseURL,
			Client:      client,
		}, nil
	case types.ProviderAnthropic:
		return &ClaudeBackend{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxRetries:  cfg.MaxRetries,
			BaseURL:     cfg.BaseURL,
			Client:      client,
		}, nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (want %s or %s)", provider, types.ProviderOpenAI, types.ProviderAnthropic)
	}
}
