// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/movie-recommender/pkg/types"
)

// DefaultPosterBaseURL prefixes poster paths when RenderConfig leaves it empty.
const DefaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"

// Assemble maps oracle ids back to candidate records in oracle order. Ids
// absent from candidates are skipped, a repeated id is emitted once, and the
// output holds at most limit entries. It returns the results and the number
// of ids it discarded.
func Assemble(ids []int64, candidates []types.Movie, limit int, render types.RenderConfig) ([]types.Recommendation, int) {
	byID := make(map[int64]types.Movie, len(candidates))
	for _, m := range candidates {
		byID[m.ID] = m
	}

	out := []types.Recommendation{}
	seen := make(map[int64]bool, len(ids))
	dropped := 0
	for _, id := range ids {
		if len(out) >= limit {
			break
		}
		m, ok := byID[id]
		if !ok || seen[id] {
			dropped++
			continue
		}
		seen[id] = true
		out = append(out, types.Recommendation{ID: id, Content: RenderContent(m, render)})
	}
	return out, dropped
}

// RenderContent formats the human-readable description of one result.
func RenderContent(m types.Movie, render types.RenderConfig) string {
	base := render.PosterBaseURL
	if base == "" {
		base = DefaultPosterBaseURL
	}

	year := "unknown"
	if m.Year != nil {
		year = strconv.Itoa(*m.Year)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s. Overview: %s Genres: %s. Year: %s. Runtime: %d min.",
		m.Title, m.Overview, strings.Join(m.Genres, ", "), year, m.Runtime)
	if m.Director != "" {
		fmt.Fprintf(&sb, " Director: %s.", m.Director)
	}
	fmt.Fprintf(&sb, " Countries: %s. Language: %s. Popularity: %.2f. Rating: %.2f. ID: %d. Poster: %s%s",
		strings.Join(m.Countries, ", "), m.Language, m.Popularity, m.Rating, m.ID, base, m.PosterPath)
	return sb.String()
}
