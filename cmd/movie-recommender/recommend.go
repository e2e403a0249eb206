// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/movie-recommender/internal/server"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run one recommendation and print the JSON response",
	Long: `Recommend runs the full pipeline once. Preferences come from a YAML or JSON
file (--prefs, "-" for stdin) and/or flags; flags override file values. The
response is printed in the same shape POST /recommend returns.`,
	RunE: runRecommend,
}

func init() {
	addPreferenceFlags(recommendCmd.Flags())
	rootCmd.AddCommand(recommendCmd)
}

func addPreferenceFlags(f *pflag.FlagSet) {
	f.String("prefs", "", "preference file (YAML or JSON; - for stdin)")
	f.String("mood", "", "mood: happy, sad, excited, relaxed, adventurous, romantic, scared, thoughtful, energetic, melancholic")
	f.Int("length", 0, "preferred runtime in minutes (matched within 20 minutes)")
	f.String("language", "", "original language code, e.g. en")
	f.String("country", "", "production country, e.g. United States of America")
	f.String("era", "", "era: old, actual or new")
	f.Bool("niche", false, "prefer less popular movies")
	f.StringSlice("genre", nil, "genre to include (repeatable)")
	f.Int("count", 0, "number of recommendations (default 3)")
	f.Int64Slice("exclude", nil, "movie id already seen (repeatable)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	prefs, err := preferencesFromCommand(cmd)
	if err != nil {
		return err
	}
	if err := server.Validator().Struct(prefs); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	rec, closeStore, err := buildRecommender(appConfig())
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer closeStore()

	resp := rec.Recommend(cmd.Context(), prefs)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// preferencesFromCommand reads --prefs, then applies any flags the user set.
func preferencesFromCommand(cmd *cobra.Command) (types.Preferences, error) {
	var prefs types.Preferences
	f := cmd.Flags()

	if path, _ := f.GetString("prefs"); path != "" {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return prefs, fmt.Errorf("reading preferences: %w", err)
		}
		if err := yaml.Unmarshal(data, &prefs); err != nil {
			return prefs, fmt.Errorf("parsing preferences %s: %w", path, err)
		}
	}

	if f.Changed("mood") {
		prefs.Mood, _ = f.GetString("mood")
	}
	if f.Changed("length") {
		v, _ := f.GetInt("length")
		prefs.PreferredLength = &v
	}
	if f.Changed("language") {
		prefs.Language, _ = f.GetString("language")
	}
	if f.Changed("country") {
		prefs.Country, _ = f.GetString("country")
	}
	if f.Changed("era") {
		prefs.Era, _ = f.GetString("era")
	}
	if f.Changed("niche") {
		niche, _ := f.GetBool("niche")
		mainstream := !niche
		prefs.Mainstream = &mainstream
	}
	if f.Changed("genre") {
		prefs.SelectedGenres, _ = f.GetStringSlice("genre")
	}
	if f.Changed("count") {
		v, _ := f.GetInt("count")
		prefs.NumberRecommended = &v
	}
	if f.Changed("exclude") {
		prefs.PreviousIDs, _ = f.GetInt64Slice("exclude")
	}

	return prefs, nil
}
