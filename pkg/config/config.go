// Package config holds the pipeline configuration.
//
// A Config is built once (by the CLI, from defaults, config file, .env files,
// environment and flags) and then passed by value. No package below the CLI
// reads process-wide state.
package config

import (
	"path/filepath"
	"time"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
)

// Config is the immutable pipeline configuration.
type Config struct {
	// Directories
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// Dataset locations
	MovieLensURL   string `json:"movielens_url" yaml:"movielens_url"`
	KaggleDataset  string `json:"kaggle_dataset" yaml:"kaggle_dataset"`
	KaggleAPIURL   string `json:"kaggle_api_url" yaml:"kaggle_api_url"`
	IMDBRatingsURL string `json:"imdb_ratings_url" yaml:"imdb_ratings_url"`

	// Kaggle credentials
	KaggleUsername string `json:"-" yaml:"-"`
	KaggleKey      string `json:"-" yaml:"-"`

	// Limits
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout"`
	Workers         int           `json:"workers" yaml:"workers"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DataDir:         "data",
		ResultsDir:      "results",
		MovieLensURL:    constants.MovieLensURL,
		KaggleDataset:   constants.KaggleDatasetSlug,
		KaggleAPIURL:    constants.KaggleAPIURL,
		IMDBRatingsURL:  constants.IMDBRatingsURL,
		DownloadTimeout: constants.DownloadTimeout,
		Workers:         1,
	}
}

// Validate checks the configuration for values no stage can work with.
func (c Config) Validate() error {
	switch {
	case c.DataDir == "":
		return errors.NewValidationError("data_dir", c.DataDir, "cannot be empty")
	case c.ResultsDir == "":
		return errors.NewValidationError("results_dir", c.ResultsDir, "cannot be empty")
	case c.Workers < 1:
		return errors.NewValidationError("workers", c.Workers, "must be at least 1")
	case c.DownloadTimeout < 0:
		return errors.NewValidationError("download_timeout", c.DownloadTimeout, "cannot be negative")
	}
	return nil
}

// HasKaggleCredentials reports whether both Kaggle credentials are set.
func (c Config) HasKaggleCredentials() bool {
	return c.KaggleUsername != "" && c.KaggleKey != ""
}

// MovieLensDir is where the MovieLens archive is extracted.
func (c Config) MovieLensDir() string {
	return filepath.Join(c.DataDir, constants.MovieLensDir)
}

// MovieLensPath is the extracted MovieLens folder.
func (c Config) MovieLensPath() string {
	return filepath.Join(c.MovieLensDir(), constants.MovieLensExtract)
}

// RatingsPath is the MovieLens rating log.
func (c Config) RatingsPath() string {
	return filepath.Join(c.MovieLensPath(), constants.MovieLensRatings)
}

// LinksPath is the MovieLens link table.
func (c Config) LinksPath() string {
	return filepath.Join(c.MovieLensPath(), constants.MovieLensLinks)
}

// KaggleDir is where the Kaggle dataset is extracted.
func (c Config) KaggleDir() string {
	return filepath.Join(c.DataDir, constants.KaggleDir)
}

// MetadataPath is the movies metadata catalog.
func (c Config) MetadataPath() string {
	return filepath.Join(c.KaggleDir(), constants.KaggleMetadata)
}

// IMDBDir is where the IMDb ratings dump is written.
func (c Config) IMDBDir() string {
	return filepath.Join(c.DataDir, constants.IMDBDir)
}

// IMDBRatingsPath is the decompressed IMDb ratings file.
func (c Config) IMDBRatingsPath() string {
	return filepath.Join(c.IMDBDir(), constants.IMDBRatings)
}

// ResultPath joins name onto the results directory.
func (c Config) ResultPath(name string) string {
	return filepath.Join(c.ResultsDir, name)
}
