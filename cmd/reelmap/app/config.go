package app

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "REELMAP"

// Config holds the CLI configuration loaded from config files, environment
// variables, .env files and flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Pipeline is handed to the commands by value.
	Pipeline config.Config
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (REELMAP_*, plus KAGGLE_USERNAME and KAGGLE_KEY)
// 3. .env files
// 4. Config file (path, or .reelmap.yaml in the working or home directory)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	if err := bindCredentials(v); err != nil {
		return nil, errors.NewConfigError("env", "failed to bind credentials", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".reelmap")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file only matters when it was asked for explicitly
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read "+configName(path), err)
		}
	}

	cfg := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		LogOutput:  v.GetString("log_output"),
		Pipeline: config.Config{
			DataDir:         v.GetString("data_dir"),
			ResultsDir:      v.GetString("results_dir"),
			MovieLensURL:    v.GetString("movielens_url"),
			KaggleDataset:   v.GetString("kaggle_dataset"),
			KaggleAPIURL:    v.GetString("kaggle_api_url"),
			IMDBRatingsURL:  v.GetString("imdb_ratings_url"),
			KaggleUsername:  v.GetString("kaggle_username"),
			KaggleKey:       v.GetString("kaggle_key"),
			DownloadTimeout: v.GetDuration("download_timeout"),
			Workers:         v.GetInt("workers"),
		},
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, errors.NewConfigError("pipeline", err.Error(), err)
	}
	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// setDefaults registers every key so AutomaticEnv can resolve it.
func setDefaults(v *viper.Viper) {
	d := config.Default()
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)
	v.SetDefault("format", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("results_dir", d.ResultsDir)
	v.SetDefault("movielens_url", d.MovieLensURL)
	v.SetDefault("kaggle_dataset", d.KaggleDataset)
	v.SetDefault("kaggle_api_url", d.KaggleAPIURL)
	v.SetDefault("imdb_ratings_url", d.IMDBRatingsURL)
	v.SetDefault("download_timeout", d.DownloadTimeout)
	v.SetDefault("workers", d.Workers)
}

// bindCredentials binds the Kaggle credentials under the names the Kaggle
// tooling uses as well as the prefixed ones.
func bindCredentials(v *viper.Viper) error {
	if err := v.BindEnv("kaggle_username", EnvPrefix+"_KAGGLE_USERNAME", "KAGGLE_USERNAME"); err != nil {
		return err
	}
	return v.BindEnv("kaggle_key", EnvPrefix+"_KAGGLE_KEY", "KAGGLE_KEY")
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env; variables already set are never replaced
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func configName(path string) string {
	if path == "" {
		return ".reelmap.yaml"
	}
	return path
}
