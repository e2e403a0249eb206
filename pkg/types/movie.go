// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Era buckets accepted in Preferences.Era. Any other value is treated as absent.
const (
	EraOld    = "old"
	EraActual = "actual"
	EraNew    = "new"
)

// DefaultNumberRecommended is used when Preferences.NumberRecommended is absent.
const DefaultNumberRecommended = 3

// RawMovie is a catalog row as returned by the record store, before shape
// validation. Genres and Countries hold the stored column text unparsed.
type RawMovie struct {
	ID          int64
	Title       string
	Overview    string
	Year        *int
	Runtime     int
	Language    string
	Genres      string
	Countries   string
	Popularity  float64
	Rating      float64
	Director    string
	PosterPath  string
	ReleaseDate string
}

// Movie is a catalog record whose list columns have been coerced to
// well-formed string slices.
type Movie struct {
	// ID is the stable catalog identifier.
	ID int64 `json:"id" yaml:"id"`

	Title    string `json:"title" yaml:"title"`
	Overview string `json:"overview" yaml:"overview"`

	// Year is the release year; nil when the catalog has none.
	Year *int `json:"year,omitempty" yaml:"year,omitempty"`

	// Runtime is the running time in minutes.
	Runtime int `json:"runtime" yaml:"runtime"`

	// Language is the original-language short code (e.g. "en").
	Language string `json:"original_language" yaml:"original_language"`

	// Genres is never empty for a record that passed shape validation.
	Genres    []string `json:"genres" yaml:"genres"`
	Countries []string `json:"production_countries" yaml:"production_countries"`

	// Popularity is dataset-relative and not normalised to a fixed range.
	Popularity float64 `json:"popularity" yaml:"popularity"`
	Rating     float64 `json:"imdb_rating" yaml:"imdb_rating"`

	Director    string `json:"director,omitempty" yaml:"director,omitempty"`
	PosterPath  string `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	ReleaseDate string `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}

// Preferences is the caller-supplied preference set. Every field is
// optional; an absent field places no constraint on its dimension.
type Preferences struct {
	Mood              string   `json:"mood,omitempty" yaml:"mood,omitempty" validate:"omitempty,mood"`
	PreferredLength   *int     `json:"preferred_length,omitempty" yaml:"preferred_length,omitempty" validate:"omitempty,min=0,max=1000"`
	Language          string   `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,max=8"`
	Country           string   `json:"country,omitempty" yaml:"country,omitempty" validate:"omitempty,max=100"`
	Era               string   `json:"era,omitempty" yaml:"era,omitempty"`
	Mainstream        *bool    `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	SelectedGenres    []string `json:"selected_genres,omitempty" yaml:"selected_genres,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	NumberRecommended *int     `json:"number_recommended,omitempty" yaml:"number_recommended,omitempty" validate:"omitempty,min=1,max=20"`
	PreviousIDs       []int64  `json:"previous_ids,omitempty" yaml:"previous_ids,omitempty" validate:"omitempty,max=10000"`
}

// IsMainstream reports the mainstream flag, defaulting to true.
func (p Preferences) IsMainstream() bool {
	if p.Mainstream == nil {
		return true
	}
	return *p.Mainstream
}

// Count returns the requested number of recommendations, defaulting to
// DefaultNumberRecommended when absent or non-positive.
func (p Preferences) Count() int {
	if p.NumberRecommended == nil || *p.NumberRecommended <= 0 {
		return DefaultNumberRecommended
	}
	return *p.NumberRecommended
}

// Recommendation is one ranked result entry.
type Recommendation struct {
	ID      int64  `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// OutcomeKind classifies a pipeline outcome for logs and metrics. It is
// never serialized; callers only see Response.Error.
type OutcomeKind string

const (
	OutcomeOK       OutcomeKind = "ok"
	OutcomeNoMatch  OutcomeKind = "no_match"
	OutcomeStore    OutcomeKind = "store_error"
	OutcomeOracle   OutcomeKind = "oracle_error"
	OutcomeInternal OutcomeKind = "internal_error"
)

// Response is the shape returned to the transport layer. On failure, and
// when nothing matches, Error is set and RecommendedMovies is empty.
type Response struct {
	RecommendedMovies []Recommendation `json:"recommended_movies" yaml:"recommended_movies"`
	Error             string           `json:"error,omitempty" yaml:"error,omitempty"`

	Kind OutcomeKind `json:"-" yaml:"-"`
}

// ErrorResponse builds the error-shaped response with an empty, non-nil list.
func ErrorResponse(kind OutcomeKind, msg string) Response {
	return Response{
		RecommendedMovies: []Recommendation{},
		Error:             msg,
		Kind:              kind,
	}
}
