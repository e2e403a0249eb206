// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter narrows catalog rows to the records that match the
// in-memory part of a preference set: shape validation, genre interest
// (mood plus selected genres), production country, and a popularity band
// computed against the set that survived the earlier steps.
package filter

import (
	"context"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

const (
	// MainstreamQuantile is the lower popularity bound kept for mainstream requests.
	MainstreamQuantile = 0.7

	// NicheQuantile is the upper popularity bound kept for niche requests.
	NicheQuantile = 0.3
)

// Criteria holds the preference fields the store cannot evaluate.
type Criteria struct {
	Mood           string
	SelectedGenres []string
	Country        string
	Mainstream     bool
}

// CriteriaFromPreferences extracts the in-memory criteria from p.
func CriteriaFromPreferences(p types.Preferences) Criteria {
	return Criteria{
		Mood:           p.Mood,
		SelectedGenres: p.SelectedGenres,
		Country:        p.Country,
		Mainstream:     p.IsMainstream(),
	}
}

// Interest returns the union of the mood's genres and the selected genres.
// An empty set means no genre constraint.
func (c Criteria) Interest() map[string]bool {
	wanted := make(map[string]bool)
	for _, g := range MoodGenres(c.Mood) {
		wanted[g] = true
	}
	for _, g := range c.SelectedGenres {
		wanted[g] = true
	}
	return wanted
}

// Apply runs the full cascade over raw store rows and returns the surviving
// movies in their original order. An empty result is a valid outcome.
func Apply(ctx context.Context, rows []types.RawMovie, c Criteria) []types.Movie {
	log := logging.Ctx(ctx)

	movies := Shape(rows)
	log.Debug().Int("in", len(rows)).Int("out", len(movies)).Msg("shape validation")

	movies = ByGenres(movies, c.Interest())
	log.Debug().Int("out", len(movies)).Msg("genre filter")

	movies = ByCountry(movies, c.Country)
	log.Debug().Int("out", len(movies)).Msg("country filter")

	movies = ByPopularity(movies, c.Mainstream)
	log.Debug().Int("out", len(movies)).Bool("mainstream", c.Mainstream).Msg("popularity filter")

	return movies
}

// ByGenres keeps movies sharing at least one genre with wanted. An empty
// wanted set keeps everything.
func ByGenres(movies []types.Movie, wanted map[string]bool) []types.Movie {
	if len(wanted) == 0 {
		return movies
	}
	return keep(movies, func(m types.Movie) bool {
		for _, g := range m.Genres {
			if wanted[g] {
				return true
			}
		}
		return false
	})
}

// ByCountry keeps movies whose production countries contain country
// (case-sensitive). An empty country keeps everything.
func ByCountry(movies []types.Movie, country string) []types.Movie {
	if country == "" {
		return movies
	}
	return keep(movies, func(m types.Movie) bool {
		for _, c := range m.Countries {
			if c == country {
				return true
			}
		}
		return false
	})
}

// ByPopularity keeps the top band (popularity >= P70) when mainstream is
// true and the bottom band (popularity <= P30) otherwise. Thresholds are
// computed over movies itself. Sets of fewer than two movies pass through.
func ByPopularity(movies []types.Movie, mainstream bool) []types.Movie {
	if len(movies) < 2 {
		return movies
	}

	values := make([]float64, len(movies))
	for i, m := range movies {
		values[i] = m.Popularity
	}

	if mainstream {
		threshold, _ := Percentile(values, MainstreamQuantile)
		return keep(movies, func(m types.Movie) bool { return m.Popularity >= threshold })
	}
	threshold, _ := Percentile(values, NicheQuantile)
	return keep(movies, func(m types.Movie) bool { return m.Popularity <= threshold })
}

func keep(movies []types.Movie, pred func(types.Movie) bool) []types.Movie {
	out := make([]types.Movie, 0, len(movies))
	for _, m := range movies {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
