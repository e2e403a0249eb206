// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/movie-recommender/internal/catalog"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dataset.csv>",
	Short: "Build the movie catalog database from a CSV dataset",
	Long: `Ingest loads a movie dataset CSV into the sqlite catalog, creating the
movies table and its indexes when needed. Rows that are unreleased, lack a
required field, or repeat a (title, release_date) pair are skipped. Genre and
country cells may be comma separated or list literals.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	store, err := catalog.Open(types.StoreConfig{Path: viper.GetString("store.path")})
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Import(cmd.Context(), f, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	if summary.Imported == 0 {
		return fmt.Errorf("no usable rows in %s (%d read)", args[0], summary.Total())
	}
	return nil
}
