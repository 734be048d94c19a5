package reconciler

import (
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/onehot"
)

// Row is one reconciled movie.
type Row struct {
	MovieID          int64      `json:"movieId" yaml:"movieId"`
	TMDBID           *int64     `json:"tmdbId" yaml:"tmdbId"`
	IMDBID           *string    `json:"imdbId" yaml:"imdbId"`
	Title            *string    `json:"title" yaml:"title"`
	OriginalLanguage *string    `json:"original_language" yaml:"original_language"`
	ReleaseDate      *time.Time `json:"release_date" yaml:"release_date"`
	Year             *int       `json:"year" yaml:"year"`
	Runtime          *float64   `json:"runtime" yaml:"runtime"`
	Budget           *float64   `json:"budget" yaml:"budget"`
	Revenue          *float64   `json:"revenue" yaml:"revenue"`
	// Genres holds one indicator per vocabulary entry. It is nil when the
	// movie had no catalog match: unknown, not "no genres".
	Genres            []uint8  `json:"genres" yaml:"genres"`
	IMDBAverageRating *float64 `json:"imdb_averageRating" yaml:"imdb_averageRating"`
	IMDBNumVotes      *int64   `json:"imdb_numVotes" yaml:"imdb_numVotes"`
}

// HasCatalog reports whether the movie matched a catalog record.
func (r Row) HasCatalog() bool {
	return r.Genres != nil
}

// HasRating reports whether the movie matched an IMDb rating.
func (r Row) HasRating() bool {
	return r.IMDBAverageRating != nil || r.IMDBNumVotes != nil
}

// Genre returns the indicator for column i; ok is false when unknown.
func (r Row) Genre(i int) (uint8, bool) {
	if r.Genres == nil || i < 0 || i >= len(r.Genres) {
		return 0, false
	}
	return r.Genres[i], true
}

// Values returns the row flattened in Columns order, with nil for missing
// values. width is the vocabulary size.
func (r Row) Values(width int) []any {
	out := make([]any, 0, len(leadingColumns)+width+len(trailingColumns))
	out = append(out,
		r.MovieID,
		deref(r.TMDBID),
		deref(r.IMDBID),
		deref(r.Title),
		deref(r.OriginalLanguage),
		date(r.ReleaseDate),
		deref(r.Year),
		deref(r.Runtime),
		deref(r.Budget),
		deref(r.Revenue),
	)
	for i := 0; i < width; i++ {
		if v, ok := r.Genre(i); ok {
			out = append(out, v)
		} else {
			out = append(out, nil)
		}
	}
	return append(out, deref(r.IMDBAverageRating), deref(r.IMDBNumVotes))
}

var leadingColumns = []string{
	constants.ColMovieID,
	constants.ColTMDBID,
	constants.ColIMDBID,
	constants.ColTitle,
	constants.ColOriginalLanguage,
	constants.ColReleaseDate,
	constants.ColYear,
	constants.ColRuntime,
	constants.ColBudget,
	constants.ColRevenue,
}

var trailingColumns = []string{
	constants.ColIMDBAverageRating,
	constants.ColIMDBNumVotes,
}

// GenreColumnPrefix is prepended to a genre whose name would otherwise
// clash with another published column.
const GenreColumnPrefix = "genre_"

// Columns returns the published column order for a vocabulary. Column names
// must stay unique under case-insensitive comparison, since SQLite identifiers
// are case-insensitive: a clashing genre is published as "genre_<name>",
// followed by "_2", "_3", ... if that is taken too.
func Columns(vocab onehot.Vocabulary) []string {
	cols := make([]string, 0, len(leadingColumns)+len(vocab)+len(trailingColumns))
	taken := make(map[string]bool, cap(cols))
	for _, c := range leadingColumns {
		taken[strings.ToLower(c)] = true
	}
	for _, c := range trailingColumns {
		taken[strings.ToLower(c)] = true
	}

	cols = append(cols, leadingColumns...)
	for _, g := range vocab {
		name := g
		if taken[strings.ToLower(name)] {
			name = GenreColumnPrefix + g
			for n := 2; taken[strings.ToLower(name)]; n++ {
				name = GenreColumnPrefix + g + "_" + strconv.Itoa(n)
			}
		}
		taken[strings.ToLower(name)] = true
		cols = append(cols, name)
	}
	return append(cols, trailingColumns...)
}

// IsGenreColumn reports whether name is neither a fixed nor a rating column.
func IsGenreColumn(name string) bool {
	for _, c := range leadingColumns {
		if c == name {
			return false
		}
	}
	for _, c := range trailingColumns {
		if c == name {
			return false
		}
	}
	return true
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func date(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(constants.DateLayout)
}
