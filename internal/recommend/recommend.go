// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend runs the recommendation pipeline: catalog query, filter
// cascade, oracle ranking and result assembly. Recommend is the request
// boundary; every failure is converted into the error-shaped response there.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/movie-recommender/internal/catalog"
	"github.com/pdiddy/movie-recommender/internal/filter"
	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/internal/metrics"
	"github.com/pdiddy/movie-recommender/internal/oracle"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

// ErrNoMatches is the expected outcome when the query or cascade leaves no
// candidates.
var ErrNoMatches = errors.New("no matching movies")

// NoMatchesMessage is the response error text for ErrNoMatches.
const NoMatchesMessage = "No matching movies."

// Catalog is the record store capability the pipeline needs.
type Catalog interface {
	Query(ctx context.Context, f catalog.Filter) ([]types.RawMovie, error)
}

// Ranker orders candidates; oracle.Ranker is the production implementation.
type Ranker interface {
	Rank(ctx context.Context, candidates []types.Movie, prefs types.Preferences) ([]int64, error)
}

// Recommender wires the pipeline stages. It holds no per-request state and
// is safe for concurrent use when its collaborators are.
type Recommender struct {
	Catalog Catalog
	Ranker  Ranker
	Render  types.RenderConfig
}

// Recommend runs the pipeline for one preference set. It never returns an
// error and never panics: failures and the no-match outcome both yield
// {"error": msg, "recommended_movies": []}.
func (r *Recommender) Recommend(ctx context.Context, prefs types.Preferences) (resp types.Response) {
	start := time.Now()
	log := logging.Ctx(ctx)

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("recommendation pipeline panicked")
			resp = types.ErrorResponse(types.OutcomeInternal, fmt.Sprintf("internal error: %v", p))
		}
		metrics.RecommendRequests.WithLabelValues(string(resp.Kind)).Inc()
		log.Info().
			Str("outcome", string(resp.Kind)).
			Int("results", len(resp.RecommendedMovies)).
			Dur("elapsed", time.Since(start)).
			Msg("recommendation complete")
	}()

	results, err := r.run(ctx, prefs)
	if err != nil {
		kind := classify(err)
		if kind == types.OutcomeNoMatch {
			return types.ErrorResponse(kind, NoMatchesMessage)
		}
		log.Error().Err(err).Str("outcome", string(kind)).Msg("recommendation failed")
		return types.ErrorResponse(kind, err.Error())
	}
	return types.Response{RecommendedMovies: results, Kind: types.OutcomeOK}
}

func (r *Recommender) run(ctx context.Context, prefs types.Preferences) ([]types.Recommendation, error) {
	log := logging.Ctx(ctx)

	rows, err := r.Catalog.Query(ctx, catalog.FilterFromPreferences(prefs))
	if err != nil {
		return nil, err
	}
	rows = excludeIDs(rows, prefs.PreviousIDs)
	if len(rows) == 0 {
		return nil, ErrNoMatches
	}

	candidates := filter.Apply(ctx, rows, filter.CriteriaFromPreferences(prefs))
	metrics.CandidateSetSize.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return nil, ErrNoMatches
	}
	candidates = oracle.Truncate(candidates)

	ids, err := r.Ranker.Rank(ctx, candidates, prefs)
	if err != nil {
		return nil, err
	}

	results, dropped := Assemble(ids, candidates, prefs.Count(), r.Render)
	if dropped > 0 {
		metrics.DroppedOracleIDs.Add(float64(dropped))
		log.Warn().Int("dropped", dropped).Msg("oracle returned unknown or repeated ids")
	}
	return results, nil
}

// excludeIDs drops rows whose id the caller has already seen, whether or not
// the Catalog applied the exclusion itself.
func excludeIDs(rows []types.RawMovie, seen []int64) []types.RawMovie {
	if len(seen) == 0 {
		return rows
	}
	skip := make(map[int64]bool, len(seen))
	for _, id := range seen {
		skip[id] = true
	}
	kept := rows[:0:0]
	for _, row := range rows {
		if !skip[row.ID] {
			kept = append(kept, row)
		}
	}
	return kept
}

func classify(err error) types.OutcomeKind {
	switch {
	case errors.Is(err, ErrNoMatches):
		return types.OutcomeNoMatch
	case errors.Is(err, catalog.ErrStoreAccess):
		return types.OutcomeStore
	case errors.Is(err, oracle.ErrInvocation):
		return types.OutcomeOracle
	default:
		return types.OutcomeInternal
	}
}
