package sources

import (
	"fmt"
	"strings"

	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/ratings"
)

// Resource names used in errors.
const (
	resourceRatings     = "ratings"
	resourceLinks       = "links"
	resourceMetadata    = "movies_metadata"
	resourceIMDBRatings = "imdb_ratings"
)

// LoadRatings reads a MovieLens ratings file (userId,movieId,rating[,timestamp])
// into a sparse matrix with both axes sorted.
func LoadRatings(path string) (*ratings.Matrix, error) {
	table, err := readTable(path, resourceRatings, csvFormat)
	if err != nil {
		return nil, err
	}
	cols, err := columns(table, "userId", "movieId", "rating")
	if err != nil {
		return nil, err
	}

	entries := make([]ratings.Entry, 0, table.Len())
	for i := range table.Rows {
		user := catalog.ParseInt(table.Cell(i, cols[0]))
		item := catalog.ParseInt(table.Cell(i, cols[1]))
		rating := catalog.ParseFloat(table.Cell(i, cols[2]))
		if user == nil || item == nil || rating == nil {
			return nil, rowError(path, i, "userId, movieId and rating must be numeric")
		}
		entries = append(entries, ratings.Entry{UserID: *user, ItemID: *item, Rating: *rating})
	}
	return ratings.NewMatrix(entries), nil
}

// LoadLinks reads a MovieLens links file (movieId,imdbId,tmdbId). External ids
// are nullable. Exact duplicate rows are removed, keeping the first.
func LoadLinks(path string) ([]Link, error) {
	table, err := readTable(path, resourceLinks, csvFormat)
	if err != nil {
		return nil, err
	}
	cols, err := columns(table, "movieId", "imdbId", "tmdbId")
	if err != nil {
		return nil, err
	}

	type key struct {
		movie      int64
		imdb, tmdb string
	}
	seen := make(map[key]struct{}, table.Len())
	links := make([]Link, 0, table.Len())
	for i := range table.Rows {
		movie := catalog.ParseInt(table.Cell(i, cols[0]))
		if movie == nil {
			return nil, rowError(path, i, "movieId must be an integer")
		}
		link := Link{
			MovieID: *movie,
			IMDBID:  catalog.ParseInt(table.Cell(i, cols[1])),
			TMDBID:  catalog.ParseInt(table.Cell(i, cols[2])),
		}
		k := key{movie: link.MovieID, imdb: optional(link.IMDBID), tmdb: optional(link.TMDBID)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		links = append(links, link)
	}
	return links, nil
}

// LoadMetadata reads the movies metadata catalog as an untyped table.
// Validation against the metadata schema happens in catalog.Normalize.
func LoadMetadata(path string) (*catalog.RawTable, error) {
	return readTable(path, resourceMetadata, csvFormat)
}

// LoadIMDBRatings reads the IMDb ratings dump (tconst, averageRating, numVotes),
// tab-delimited and optionally gzip-compressed. tconst is trimmed.
// Rows are returned in file order; duplicates are kept.
func LoadIMDBRatings(path string) ([]IMDBRating, error) {
	table, err := readTable(path, resourceIMDBRatings, tsvFormat)
	if err != nil {
		return nil, err
	}
	cols, err := columns(table, "tconst", "averageRating", "numVotes")
	if err != nil {
		return nil, err
	}

	out := make([]IMDBRating, 0, table.Len())
	for i := range table.Rows {
		tconst := table.Cell(i, cols[0])
		if tconst == nil {
			continue
		}
		out = append(out, IMDBRating{
			TConst:        strings.TrimSpace(*tconst),
			AverageRating: catalog.ParseFloat(table.Cell(i, cols[1])),
			NumVotes:      catalog.ParseInt(table.Cell(i, cols[2])),
		})
	}
	return out, nil
}

// rowError reports a bad data row; row is zero-based and excludes the header.
func rowError(path string, row int, message string) error {
	return &errors.ParseError{Format: "csv", File: path, Line: row + 2, Message: message}
}

func optional(p *int64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}
