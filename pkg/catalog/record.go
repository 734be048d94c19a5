package catalog

import (
	"time"

	"github.com/agentstation/reelmap/internal/utils/ptr"
)

// Record is one normalized metadata row.
// Nil fields are values that were missing or failed coercion.
type Record struct {
	ID               *int64     `json:"id" yaml:"id"`
	IMDBID           *string    `json:"imdb_id" yaml:"imdb_id"`
	Title            *string    `json:"title" yaml:"title"`
	OriginalLanguage *string    `json:"original_language" yaml:"original_language"`
	ReleaseDate      *time.Time `json:"release_date" yaml:"release_date"`
	Year             *int       `json:"year" yaml:"year"`
	Runtime          *float64   `json:"runtime" yaml:"runtime"`
	Budget           *float64   `json:"budget" yaml:"budget"`
	Revenue          *float64   `json:"revenue" yaml:"revenue"`
	GenreList        []string   `json:"genre_lst" yaml:"genre_lst"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	c.ID = ptr.Clone(r.ID)
	c.IMDBID = ptr.Clone(r.IMDBID)
	c.Title = ptr.Clone(r.Title)
	c.OriginalLanguage = ptr.Clone(r.OriginalLanguage)
	c.ReleaseDate = ptr.Clone(r.ReleaseDate)
	c.Year = ptr.Clone(r.Year)
	c.Runtime = ptr.Clone(r.Runtime)
	c.Budget = ptr.Clone(r.Budget)
	c.Revenue = ptr.Clone(r.Revenue)
	if r.GenreList != nil {
		c.GenreList = append([]string{}, r.GenreList...)
	}
	return c
}
