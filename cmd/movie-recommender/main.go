// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the movie-recommender CLI: an HTTP
// service, a one-shot recommend command, and the catalog import.
package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the movie-recommender CLI.
var rootCmd = &cobra.Command{
	Use:   "movie-recommender",
	Short: "Mood-driven movie recommendations ranked by a language model",
	Long: `movie-recommender filters a sqlite movie catalog against a preference set
(mood, runtime, language, era, country, popularity), sends the best matching
candidates to a ranking model, and returns an ordered list of recommendations.

Use "ingest" once to build the catalog from a CSV dataset, then "serve" to
expose POST /recommend or "recommend" for a one-off query.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logConfig(), os.Stderr)

		dir := viper.GetString("secrets_dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logging.Debug().Strs("keys", keys).Str("dir", dir).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./movie-recommender.yaml or ~/.config/movie-recommender/movie-recommender.yaml)")
	pf.String("db", "", "path to the sqlite movie catalog")
	pf.String("provider", "", "ranking oracle provider: openai or anthropic")
	pf.String("model", "", "ranking oracle model identifier")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: json or console")
	pf.String("secrets-dir", "", "directory of API key files")

	bindFlag("store.path", pf.Lookup("db"))
	bindFlag("oracle.provider", pf.Lookup("provider"))
	bindFlag("oracle.model", pf.Lookup("model"))
	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.format", pf.Lookup("log-format"))
	bindFlag("secrets_dir", pf.Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("movie-recommender")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "movie-recommender"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logging.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
