// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import "sort"

// moodGenres maps each supported mood to its associated genres. It is built
// once and never mutated; accessors return copies.
var moodGenres = map[string][]string{
	"happy":       {"Comedy", "Romance", "Family", "Adventure"},
	"sad":         {"Drama", "Romance"},
	"excited":     {"Action", "Adventure", "Thriller", "Science Fiction"},
	"relaxed":     {"Romance", "Comedy", "Family", "Music"},
	"adventurous": {"Adventure", "Action", "Fantasy"},
	"romantic":    {"Romance", "Drama"},
	"scared":      {"Horror", "Thriller", "Mystery"},
	"thoughtful":  {"Drama", "History", "Mystery"},
	"energetic":   {"Action", "Adventure"},
	"melancholic": {"Drama", "Music", "Romance"},
}

// MoodGenres returns the genres associated with mood, or nil when the mood
// is unknown.
func MoodGenres(mood string) []string {
	g, ok := moodGenres[mood]
	if !ok {
		return nil
	}
	return append([]string(nil), g...)
}

// IsMood reports whether mood is in the mood table.
func IsMood(mood string) bool {
	_, ok := moodGenres[mood]
	return ok
}

// Moods returns the supported moods in alphabetical order.
func Moods() []string {
	moods := make([]string, 0, len(moodGenres))
	for m := range moodGenres {
		moods = append(moods, m)
	}
	sort.Strings(moods)
	return moods
}
