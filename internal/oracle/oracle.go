// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oracle builds ranking prompts, invokes a text-in/text-out ranking
// oracle, and parses its free-text output into candidate identifiers.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/internal/metrics"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

var (
	// ErrInvocation marks a failed oracle call: transport error, non-success
	// status, empty completion or an open circuit breaker.
	ErrInvocation = errors.New("oracle invocation failed")

	// ErrMissingCredential is returned at startup when the selected provider
	// has no API key.
	ErrMissingCredential = errors.New("oracle credential missing")
)

// Oracle is the narrow capability the pipeline needs from a ranking model.
// The returned text is untrusted.
type Oracle interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, prompt string) (string, error)

// Invoke calls f.
func (f OracleFunc) Invoke(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Ranker turns a candidate set into an ordered list of identifiers by
// prompting an Oracle and parsing its reply.
type Ranker struct {
	Oracle Oracle

	// Provider labels metrics and logs; it does not affect behaviour.
	Provider string
}

// Rank builds the prompt for the first CandidateCeiling candidates, invokes
// the oracle and returns the parsed ids in oracle order. The ids are not
// validated against the candidates; that is the assembler's job.
func (r *Ranker) Rank(ctx context.Context, candidates []types.Movie, prefs types.Preferences) ([]int64, error) {
	prompt, err := BuildPrompt(candidates, prefs)
	if err != nil {
		return nil, err
	}

	provider := r.Provider
	if provider == "" {
		provider = "custom"
	}

	start := time.Now()
	text, err := r.Oracle.Invoke(ctx, prompt)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.OracleCallDuration.WithLabelValues(provider, status).Observe(elapsed.Seconds())

	if err != nil {
		if !errors.Is(err, ErrInvocation) {
			err = fmt.Errorf("%w: %w", ErrInvocation, err)
		}
		return nil, err
	}

	ids := ParseIDs(text)
	logging.Ctx(ctx).Debug().
		Str("provider", provider).
		Int("candidates", len(Truncate(candidates))).
		Int("ids", len(ids)).
		Dur("elapsed", elapsed).
		Msg("oracle ranked candidates")
	return ids, nil
}
