// Package constants provides shared constants used throughout the reelmap codebase.
// This includes timeouts, file permissions, dataset locations and the column
// names published in the reconciled table.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for small HTTP requests
	DefaultHTTPTimeout = 60 * time.Second

	// DownloadTimeout is the timeout for a single dataset download
	DownloadTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Dataset locations
const (
	// MovieLensURL is the MovieLens "latest small" archive
	MovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

	// KaggleDatasetSlug identifies the movies metadata dataset on Kaggle
	KaggleDatasetSlug = "rounakbanik/the-movies-dataset"

	// KaggleAPIURL is the base URL of the Kaggle dataset download API
	KaggleAPIURL = "https://www.kaggle.com/api/v1/datasets/download"

	// IMDBRatingsURL is the gzipped IMDb ratings dump
	IMDBRatingsURL = "https://datasets.imdbws.com/title.ratings.tsv.gz"
)

// File names inside the data directory
const (
	MovieLensDir      = "movielens"
	MovieLensExtract  = "ml-latest-small"
	MovieLensRatings  = "ratings.csv"
	MovieLensLinks    = "links.csv"
	KaggleDir         = "kaggle"
	KaggleMetadata    = "movies_metadata.csv"
	KaggleLinksSmall  = "links_small.csv"
	KaggleRatingSmall = "ratings_small.csv"
	IMDBDir           = "imdb"
	IMDBRatings       = "title.ratings.tsv"
)

// File names inside the results directory
const (
	ResultCSV        = "movies.csv"
	ResultSQLite     = "reelmap.db"
	ResultVocabulary = "genres.yaml"
)

// Published column names of the reconciled table.
// Genre indicator columns are inserted between ColRevenue and ColIMDBAverageRating.
const (
	ColMovieID           = "movieId"
	ColTMDBID            = "tmdbId"
	ColIMDBID            = "imdbId"
	ColTitle             = "title"
	ColOriginalLanguage  = "original_language"
	ColReleaseDate       = "release_date"
	ColYear              = "year"
	ColRuntime           = "runtime"
	ColBudget            = "budget"
	ColRevenue           = "revenue"
	ColIMDBAverageRating = "imdb_averageRating"
	ColIMDBNumVotes      = "imdb_numVotes"
)

// DateLayout is the layout used when publishing release dates
const DateLayout = "2006-01-02"
