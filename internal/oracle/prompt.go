// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	json "github.com/goccy/go-json"

	"github.com/pdiddy/movie-recommender/pkg/types"
)

// CandidateCeiling is the maximum number of candidates sent to the oracle.
const CandidateCeiling = 50

// rankingPromptTmpl instructs the oracle to pick and order movie ids from
// the supplied list.
var rankingPromptTmpl = template.Must(template.New("ranking").Parse(`It is your job to rank movies from most recommended to least. You will be supplied a list of movie IDs and descriptions. Choose the best matching {{.Count}} movies by ID for the user and rank them from most recommended to least.

STRICT RULES:
- Output exactly {{.Count}} movie IDs.
- Output one ID per line and nothing else: no text, no numbering, no punctuation.
- Choose ONLY IDs that appear in the Movies List below.
- Order the IDs from most recommended to least recommended.

Output example:
123
4123
10

User Preferences:
{{.Preferences}}

Movies List:
{{.Movies}}
`))

// Truncate returns at most CandidateCeiling movies, keeping their order.
func Truncate(movies []types.Movie) []types.Movie {
	if len(movies) > CandidateCeiling {
		return movies[:CandidateCeiling]
	}
	return movies
}

// FormatCandidates renders one "<id> - <overview>" line per movie.
func FormatCandidates(movies []types.Movie) string {
	lines := make([]string, len(movies))
	for i, m := range movies {
		lines[i] = strconv.FormatInt(m.ID, 10) + " - " + m.Overview
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt renders the ranking instruction for the first
// CandidateCeiling candidates. It does no filtering. The exclusion list is
// left out: the catalog query already applied it, and it would make the
// prompt grow with the caller's history.
func BuildPrompt(candidates []types.Movie, prefs types.Preferences) (string, error) {
	shown := prefs
	shown.PreviousIDs = nil
	prefsJSON, err := json.MarshalIndent(shown, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding preferences: %w", err)
	}

	var buf bytes.Buffer
	err = rankingPromptTmpl.Execute(&buf, struct {
		Count       int
		Preferences string
		Movies      string
	}{
		Count:       prefs.Count(),
		Preferences: string(prefsJSON),
		Movies:      FormatCandidates(Truncate(candidates)),
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}
