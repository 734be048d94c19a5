// Package sources loads and downloads the three datasets the pipeline
// reconciles: the MovieLens rating log and link table, the Kaggle movies
// metadata catalog, and the IMDb ratings dump.
//
// Loaders turn files into typed values (ratings.Matrix, []Link,
// catalog.RawTable, []IMDBRating). The Fetcher downloads the files,
// skipping any dataset already present unless forced.
package sources

import (
	"slices"
)

// ID identifies a remote dataset.
type ID string

// String returns the string representation of a dataset id.
func (id ID) String() string {
	return string(id)
}

// Dataset ids.
const (
	MovieLensID ID = "movielens"
	KaggleID    ID = "kaggle"
	IMDBID      ID = "imdb"
)

// IDs returns all dataset ids in fetch order.
func IDs() []ID {
	return []ID{
		MovieLensID,
		KaggleID,
		IMDBID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Link maps an internal MovieLens item id to its external ids.
// Either external id may be missing.
type Link struct {
	MovieID int64  `json:"movieId" yaml:"movieId"`
	IMDBID  *int64 `json:"imdbId" yaml:"imdbId"`
	TMDBID  *int64 `json:"tmdbId" yaml:"tmdbId"`
}

// IMDBRating is one row of the IMDb ratings dump.
type IMDBRating struct {
	TConst        string   `json:"tconst" yaml:"tconst"`
	AverageRating *float64 `json:"averageRating" yaml:"averageRating"`
	NumVotes      *int64   `json:"numVotes" yaml:"numVotes"`
}

// TMDBIDs returns the distinct non-missing TMDB ids of links, in first-seen order.
func TMDBIDs(links []Link) []int64 {
	seen := make(map[int64]struct{}, len(links))
	var ids []int64
	for _, l := range links {
		if l.TMDBID == nil {
			continue
		}
		if _, ok := seen[*l.TMDBID]; ok {
			continue
		}
		seen[*l.TMDBID] = struct{}{}
		ids = append(ids, *l.TMDBID)
	}
	return ids
}
