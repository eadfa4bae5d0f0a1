package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/fredmorcos/tvrank/internal/domain"
)

// DefaultBaseURL is where the IMDB dumps are published.
const DefaultBaseURL = "https://datasets.imdbws.com/"

// Load resolves configuration from the config file, TVRANK_*
// environment variables and bound command-line flags, in ascending
// precedence.
func Load() (*domain.Config, error) {
	cfg := &domain.Config{
		CacheDir:    viper.GetString("cache_dir"),
		BaseURL:     viper.GetString("base_url"),
		ForceUpdate: viper.GetBool("force_update"),
		SortByYear:  viper.GetBool("sort_by_year"),
		Top:         viper.GetInt("top"),
		Output:      domain.OutputFormat(viper.GetString("output")),
		NoColor:     viper.GetBool("no_color"),
		Verbosity:   viper.GetInt("verbosity"),
	}

	if cfg.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to determine the user cache directory")
		}
		cfg.CacheDir = filepath.Join(base, "tvrank")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Output == "" {
		cfg.Output = domain.OutputTable
	}
	if !cfg.Output.Valid() {
		return nil, &domain.InvalidOutputError{Format: cfg.Output}
	}

	if cfg.Top < 0 {
		return nil, errors.Errorf("top must not be negative, got %d", cfg.Top)
	}

	return cfg, nil
}
