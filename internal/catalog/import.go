// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/movie-recommender/internal/filter"
)

// requiredColumns must be present in the CSV header and non-empty on every
// imported row.
var requiredColumns = []string{
	"title", "overview", "release_date", "runtime", "original_language",
	"genres", "production_countries", "popularity", "imdb_rating",
	"director", "poster_path",
}

// ImportSummary holds counts from a catalog import run.
type ImportSummary struct {
	Imported   int
	Incomplete int
	Duplicates int
	Unreleased int
}

// Total returns the number of data rows read.
func (s ImportSummary) Total() int {
	return s.Imported + s.Incomplete + s.Duplicates + s.Unreleased
}

// Import reads a movie dataset CSV and loads it into the movies table,
// replacing rows with the same id. Rows with a status column other than
// "Released", rows missing a required field, and repeated (title,
// release_date) pairs are skipped. Genre and country cells may be comma
// separated text or list literals; both are stored as JSON arrays.
func (s *Store) Import(ctx context.Context, r io.Reader, w io.Writer) (ImportSummary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("reading CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return ImportSummary{}, fmt.Errorf("CSV is missing column %q", name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO movies (id, title, overview, genres, production_countries,
			popularity, imdb_rating, runtime, year, original_language, director, poster_path, release_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var (
		summary ImportSummary
		seen    = make(map[string]bool)
		line    = 1
		nextID  = int64(1)
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return summary, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if status := get("status"); status != "" && status != "Released" {
			summary.Unreleased++
			continue
		}

		row, ok := parseRow(get)
		if !ok {
			summary.Incomplete++
			continue
		}

		key := row.title + "\x00" + row.releaseDate
		if seen[key] {
			summary.Duplicates++
			continue
		}
		seen[key] = true

		id := nextID
		if v := get("id"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				id = parsed
			}
		}
		nextID = max(nextID, id) + 1

		if _, err := stmt.ExecContext(ctx,
			id, row.title, row.overview, row.genres, row.countries,
			row.popularity, row.rating, row.runtime, row.year, row.language,
			row.director, row.posterPath, row.releaseDate,
		); err != nil {
			return summary, fmt.Errorf("inserting line %d: %w", line, err)
		}
		summary.Imported++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `ANALYZE`); err != nil {
		fmt.Fprintf(w, "warning: analyze failed: %v\n", err)
	}

	fmt.Fprintf(w, "imported: %d, incomplete: %d, duplicates: %d, unreleased: %d\n",
		summary.Imported, summary.Incomplete, summary.Duplicates, summary.Unreleased)

	return summary, nil
}

type importRow struct {
	title, overview, genres, countries string
	language, director, posterPath     string
	releaseDate                        string
	runtime                            int
	year                               any
	popularity, rating                 float64
}

func parseRow(get func(string) string) (importRow, bool) {
	for _, name := range requiredColumns {
		if get(name) == "" {
			return importRow{}, false
		}
	}

	row := importRow{
		title:       get("title"),
		overview:    get("overview"),
		language:    get("original_language"),
		director:    get("director"),
		posterPath:  get("poster_path"),
		releaseDate: get("release_date"),
	}

	runtime, err := strconv.ParseFloat(get("runtime"), 64)
	if err != nil {
		return importRow{}, false
	}
	row.runtime = int(runtime)

	if row.popularity, err = strconv.ParseFloat(get("popularity"), 64); err != nil {
		return importRow{}, false
	}
	if row.rating, err = strconv.ParseFloat(get("imdb_rating"), 64); err != nil {
		return importRow{}, false
	}

	yearText := get("year")
	if yearText == "" && len(row.releaseDate) >= 4 {
		yearText = row.releaseDate[:4]
	}
	if y, err := strconv.ParseFloat(yearText, 64); err == nil {
		row.year = int(y)
	}

	genres := normaliseList(get("genres"))
	if len(genres) == 0 {
		return importRow{}, false
	}
	row.genres = encodeList(genres)
	row.countries = encodeList(normaliseList(get("production_countries")))

	return row, true
}

// normaliseList accepts either a list literal or comma separated text.
func normaliseList(v string) []string {
	if strings.HasPrefix(v, "[") {
		return filter.ParseList(v)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return string(data)
}
