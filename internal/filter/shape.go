// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/movie-recommender/pkg/types"
)

// nullScalars are plain scalars dropped from a list (Python None, JSON null).
var nullScalars = map[string]bool{
	"None": true, "null": true, "Null": true, "NULL": true, "~": true, "": true,
}

// ParseList coerces a stored list column to a slice of strings. It reads
// the text as a YAML sequence, which covers JSON arrays and Python list
// literals (['Action', 'Drama']), and also unquoted flow items and block
// sequences. Python's \' escape inside single quotes is accepted. Null
// elements are dropped and scalars keep their text. Anything that is not a
// sequence yields nil.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// YAML single-quoted scalars escape a quote by doubling it.
	raw = strings.ReplaceAll(raw, `\'`, `''`)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}
	node := &doc
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.SequenceNode {
		return nil
	}

	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			continue
		}
		if item.Style == 0 && nullScalars[item.Value] {
			continue
		}
		out = append(out, item.Value)
	}
	return out
}

// Shape converts raw rows to movies, parsing list columns and dropping rows
// whose genres end up empty. Malformed list text drops the row, never the
// request.
func Shape(rows []types.RawMovie) []types.Movie {
	movies := make([]types.Movie, 0, len(rows))
	for _, r := range rows {
		genres := ParseList(r.Genres)
		if len(genres) == 0 {
			continue
		}
		countries := ParseList(r.Countries)
		if countries == nil {
			countries = []string{}
		}
		movies = append(movies, types.Movie{
			ID:          r.ID,
			Title:       r.Title,
			Overview:    r.Overview,
			Year:        r.Year,
			Runtime:     r.Runtime,
			Language:    r.Language,
			Genres:      genres,
			Countries:   countries,
			Popularity:  r.Popularity,
			Rating:      r.Rating,
			Director:    r.Director,
			PosterPath:  r.PosterPath,
			ReleaseDate: r.ReleaseDate,
		})
	}
	return movies
}
