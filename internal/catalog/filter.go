// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"

	"github.com/pdiddy/movie-recommender/pkg/types"
)

// RuntimeTolerance is the fixed half-width, in minutes, of the runtime
// window around a preferred length.
const RuntimeTolerance = 20

// columns is the projection returned by Query, in scan order.
const columns = `id, title, overview, genres, production_countries, popularity,
	imdb_rating, runtime, year, original_language, director, poster_path, release_date`

// Filter is the store-side part of a preference set: everything that can be
// expressed as a parameterized predicate. Genre, country and popularity
// constraints are applied in memory by the filter package.
type Filter struct {
	// MinRuntime and MaxRuntime bound runtime inclusively when HasRuntime.
	HasRuntime bool
	MinRuntime int
	MaxRuntime int

	// Language is an exact original_language match when non-empty.
	Language string

	// Era is one of types.EraOld, EraActual, EraNew, or "" for no bound.
	Era string

	// ExcludeIDs are previously seen movies.
	ExcludeIDs []int64
}

// FilterFromPreferences translates a preference set into a store filter.
// Unrecognized era values and non-positive preferred lengths are treated as
// absent.
func FilterFromPreferences(p types.Preferences) Filter {
	var f Filter

	if p.PreferredLength != nil && *p.PreferredLength > 0 {
		l := *p.PreferredLength
		f.HasRuntime = true
		f.MinRuntime = max(0, l-RuntimeTolerance)
		f.MaxRuntime = l + RuntimeTolerance
	}

	f.Language = p.Language

	switch p.Era {
	case types.EraOld, types.EraActual, types.EraNew:
		f.Era = p.Era
	}

	if len(p.PreviousIDs) > 0 {
		f.ExcludeIDs = append([]int64(nil), p.PreviousIDs...)
	}

	return f
}

// IsEmpty reports whether the filter places no constraint on the result.
func (f Filter) IsEmpty() bool {
	return !f.HasRuntime && f.Language == "" && f.Era == "" && len(f.ExcludeIDs) == 0
}

// SQL renders the filter as a parameterized SELECT over the movies table,
// ordered by popularity then rating, both descending. User-supplied values
// only ever appear in args.
func (f Filter) SQL() (string, []any) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + columns + ` FROM movies WHERE 1=1`)

	if f.HasRuntime {
		qb.WriteString(` AND runtime BETWEEN ? AND ?`)
		args = append(args, f.MinRuntime, f.MaxRuntime)
	}

	if f.Language != "" {
		qb.WriteString(` AND original_language = ?`)
		args = append(args, f.Language)
	}

	switch f.Era {
	case types.EraOld:
		qb.WriteString(` AND year <= 1990`)
	case types.EraActual:
		qb.WriteString(` AND year > 1990 AND year <= 2020`)
	case types.EraNew:
		qb.WriteString(` AND year > 2020`)
	}

	if len(f.ExcludeIDs) > 0 {
		qb.WriteString(` AND id NOT IN (`)
		qb.WriteString(strings.TrimSuffix(strings.Repeat("?,", len(f.ExcludeIDs)), ","))
		qb.WriteString(`)`)
		for _, id := range f.ExcludeIDs {
			args = append(args, id)
		}
	}

	qb.WriteString(` ORDER BY popularity DESC, imdb_rating DESC`)

	return qb.String(), args
}
