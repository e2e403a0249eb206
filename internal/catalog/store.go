// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog is the read side of the movie record store: a sqlite
// database holding one row per movie, queried with parameterized filters
// derived from a preference set. It also owns the one-time CSV import that
// builds the database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/movie-recommender/internal/metrics"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

// DefaultPath is the database location used when none is configured.
const DefaultPath = "datasets/movie_dataset.db"

var (
	// ErrDatabaseMissing is returned by Open when MustExist is set and the
	// database file is absent. It is a startup failure.
	ErrDatabaseMissing = errors.New("catalog database not found")

	// ErrStoreAccess wraps every query or connectivity failure.
	ErrStoreAccess = errors.New("catalog store access failed")
)

// Store manages the movie catalog sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens the catalog database at cfg.Path. With MustExist the file has
// to be present and is opened read-only; otherwise it is created along with
// its parent directory and schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	var dsn string
	if cfg.MustExist {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseMissing, path)
		}
		dsn = "file:" + path + "?mode=ro"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}

	if !cfg.MustExist {
		if err := s.createSchema(); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	} else if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreAccess, err)
	}

	return s, nil
}

// NewStore wraps an existing handle. The caller keeps ownership of the
// schema; Close still closes db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			overview TEXT,
			genres TEXT,
			production_countries TEXT,
			popularity REAL,
			imdb_rating REAL,
			runtime INTEGER,
			year INTEGER,
			original_language TEXT,
			director TEXT,
			poster_path TEXT,
			release_date TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_year ON movies(year)`,
		`CREATE INDEX IF NOT EXISTS idx_language ON movies(original_language)`,
		`CREATE INDEX IF NOT EXISTS idx_runtime ON movies(runtime)`,
		`CREATE INDEX IF NOT EXISTS idx_popularity ON movies(popularity)`,
		`CREATE INDEX IF NOT EXISTS idx_rating ON movies(imdb_rating)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Query runs the filter against the movies table and returns rows in
// relevance order. An empty result is not an error; any driver failure is
// wrapped in ErrStoreAccess.
func (s *Store) Query(ctx context.Context, f Filter) ([]types.RawMovie, error) {
	query, args := f.SQL()

	start := time.Now()
	defer func() { metrics.StoreQueryDuration.Observe(time.Since(start).Seconds()) }()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying movies: %v", ErrStoreAccess, err)
	}
	defer rows.Close()

	var movies []types.RawMovie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", ErrStoreAccess, err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading rows: %v", ErrStoreAccess, err)
	}

	return movies, nil
}

// Count returns the number of movies in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting movies: %v", ErrStoreAccess, err)
	}
	return n, nil
}

func scanMovie(rows *sql.Rows) (types.RawMovie, error) {
	var (
		m           types.RawMovie
		title       sql.NullString
		overview    sql.NullString
		genres      sql.NullString
		countries   sql.NullString
		popularity  sql.NullFloat64
		rating      sql.NullFloat64
		runtime     sql.NullInt64
		year        sql.NullInt64
		language    sql.NullString
		director    sql.NullString
		posterPath  sql.NullString
		releaseDate sql.NullString
	)

	if err := rows.Scan(
		&m.ID, &title, &overview, &genres, &countries, &popularity,
		&rating, &runtime, &year, &language, &director, &posterPath, &releaseDate,
	); err != nil {
		return types.RawMovie{}, err
	}

	m.Title = title.String
	m.Overview = overview.String
	m.Genres = genres.String
	m.Countries = countries.String
	m.Popularity = popularity.Float64
	m.Rating = rating.Float64
	m.Runtime = int(runtime.Int64)
	if year.Valid {
		y := int(year.Int64)
		m.Year = &y
	}
	m.Language = language.String
	m.Director = director.String
	m.PosterPath = posterPath.String
	m.ReleaseDate = releaseDate.String

	return m, nil
}
