// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/movie-recommender/internal/catalog"
	"github.com/pdiddy/movie-recommender/internal/oracle"
	"github.com/pdiddy/movie-recommender/internal/recommend"
	"github.com/pdiddy/movie-recommender/internal/secrets"
	"github.com/pdiddy/movie-recommender/pkg/types"
)

const envPrefix = "MOVIE_RECOMMENDER"

func setDefaults() {
	viper.SetDefault("store.path", catalog.DefaultPath)
	viper.SetDefault("oracle.provider", string(types.ProviderOpenAI))
	viper.SetDefault("oracle.model", "")
	viper.SetDefault("oracle.temperature", oracle.DefaultTemperature)
	viper.SetDefault("oracle.timeout", 60*time.Second)
	viper.SetDefault("oracle.max_retries", 3)
	viper.SetDefault("oracle.base_url", "")
	viper.SetDefault("oracle.breaker_failures", 5)
	viper.SetDefault("oracle.breaker_timeout", 30*time.Second)
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.rate_limit", 60)
	viper.SetDefault("server.request_timeout", 90*time.Second)
	viper.SetDefault("render.poster_base_url", recommend.DefaultPosterBaseURL)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("secrets_dir", ".secrets/")
}

// configureEnv maps nested keys to MOVIE_RECOMMENDER_SECTION_KEY variables.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func logConfig() types.LogConfig {
	return types.LogConfig{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}
}

// appConfig assembles the typed configuration from viper. The oracle API
// key comes from the secrets directory or the provider's environment
// variable.
func appConfig() types.AppConfig {
	provider := types.OracleProvider(strings.ToLower(viper.GetString("oracle.provider")))

	return types.AppConfig{
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Oracle: types.OracleConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("oracle.model"),
				APIKey:     secrets.Lookup(loadedSecrets, secrets.ProviderKey(string(provider))),
				MaxRetries: viper.GetInt("oracle.max_retries"),
			},
			Provider:    provider,
			Temperature: viper.GetFloat64("oracle.temperature"),
			Timeout:     viper.GetDuration("oracle.timeout"),
			BaseURL:     viper.GetString("oracle.base_url"),
		},
		Render: types.RenderConfig{
			PosterBaseURL: viper.GetString("render.poster_base_url"),
		},
		Server: types.ServerConfig{
			Addr:           viper.GetString("server.addr"),
			CORSOrigins:    viper.GetStringSlice("server.cors_origins"),
			RateLimit:      viper.GetInt("server.rate_limit"),
			RequestTimeout: viper.GetDuration("server.request_timeout"),
		},
		Log: logConfig(),
	}
}

// buildRecommender performs the startup checks shared by serve and
// recommend: the catalog must exist and the oracle must have a credential.
// The returned close func releases the catalog.
func buildRecommender(cfg types.AppConfig) (*recommend.Recommender, func() error, error) {
	cfg.Store.MustExist = true
	store, err := catalog.Open(cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	backend, err := oracle.NewBackend(cfg.Oracle, nil)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	breaker := oracle.NewBreaker(backend, oracle.BreakerSettings{
		Name:             string(cfg.Oracle.Provider),
		FailureThreshold: uint32(viper.GetInt("oracle.breaker_failures")),
		OpenTimeout:      viper.GetDuration("oracle.breaker_timeout"),
	})

	rec := &recommend.Recommender{
		Catalog: store,
		Ranker:  &oracle.Ranker{Oracle: breaker, Provider: string(cfg.Oracle.Provider)},
		Render:  cfg.Render,
	}
	return rec, store.Close, nil
}
