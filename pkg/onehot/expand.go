package onehot

import (
	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/errors"
)

// Row is a catalog record with its genre indicators.
// The record's GenreList is cleared; the indicators replace it.
type Row struct {
	catalog.Record
	Indicators []uint8 `json:"genres" yaml:"genres"`
}

// Has reports whether the row is flagged with the genre at column i.
func (r Row) Has(i int) bool {
	return i >= 0 && i < len(r.Indicators) && r.Indicators[i] == 1
}

// Stats counts what expansion did to a batch.
type Stats struct {
	Records   int `json:"records" yaml:"records"`
	EmptyRows int `json:"empty_rows" yaml:"empty_rows"`
	// Unknown counts genre mentions outside a frozen vocabulary.
	Unknown       int      `json:"unknown" yaml:"unknown"`
	UnknownGenres []string `json:"unknown_genres,omitempty" yaml:"unknown_genres,omitempty"`
}

// Table is the expanded catalog.
type Table struct {
	Vocabulary Vocabulary
	Rows       []Row
	Stats      Stats
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Strip returns the records without indicator columns, with each GenreList
// rebuilt from the indicators in vocabulary order.
func (t *Table) Strip() []catalog.Record {
	out := make([]catalog.Record, len(t.Rows))
	for i, row := range t.Rows {
		rec := row.Record.Clone()
		rec.GenreList = make([]string, 0, len(t.Vocabulary))
		for j, name := range t.Vocabulary {
			if row.Has(j) {
				rec.GenreList = append(rec.GenreList, name)
			}
		}
		out[i] = rec
	}
	return out
}

// Column returns the indicator column for genre across all rows.
func (t *Table) Column(genre string) ([]uint8, bool) {
	j, ok := t.Vocabulary.Index(genre)
	if !ok {
		return nil, false
	}
	col := make([]uint8, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row.Indicators[j]
	}
	return col, true
}

// Counts returns the number of rows flagged with each genre, in vocabulary order.
func (t *Table) Counts() []int {
	counts := make([]int, len(t.Vocabulary))
	for _, row := range t.Rows {
		for j, v := range row.Indicators {
			counts[j] += int(v)
		}
	}
	return counts
}

type options struct {
	vocabulary Vocabulary
	frozen     bool
}

// Option configures Expand.
type Option func(*options) error

// WithVocabulary encodes against a fixed vocabulary instead of deriving one
// from the batch. Genres outside it are counted in Stats.Unknown and ignored.
func WithVocabulary(v Vocabulary) Option {
	return func(o *options) error {
		if v == nil {
			return &errors.ValidationError{
				Field:   "vocabulary",
				Message: "cannot be nil",
			}
		}
		if !isSortedSet(v) {
			return &errors.ValidationError{
				Field:   "vocabulary",
				Value:   []string(v),
				Message: "must be sorted and free of duplicates",
			}
		}
		o.vocabulary = v
		o.frozen = true
		return nil
	}
}

// Expand produces one indicator column per genre. Every record yields exactly
// one row, in input order; a record with no genres gets all zeros.
// The input records are not modified.
func Expand(records []catalog.Record, opts ...Option) (*Table, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	vocab := o.vocabulary
	if !o.frozen {
		var names []string
		for _, rec := range records {
			names = append(names, rec.GenreList...)
		}
		vocab = NewVocabulary(names...)
	}

	table := &Table{
		Vocabulary: vocab,
		Rows:       make([]Row, len(records)),
		Stats:      Stats{Records: len(records)},
	}
	unknown := make(map[string]struct{})

	for i, rec := range records {
		row := Row{Record: rec.Clone(), Indicators: make([]uint8, len(vocab))}
		row.GenreList = nil

		flagged := false
		for _, name := range rec.GenreList {
			j, ok := vocab.Index(name)
			if !ok {
				table.Stats.Unknown++
				unknown[name] = struct{}{}
				continue
			}
			row.Indicators[j] = 1
			flagged = true
		}
		if !flagged {
			table.Stats.EmptyRows++
		}
		table.Rows[i] = row
	}

	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for n := range unknown {
			names = append(names, n)
		}
		table.Stats.UnknownGenres = NewVocabulary(names...)
	}
	return table, nil
}

func isSortedSet(v Vocabulary) bool {
	for i := 1; i < len(v); i++ {
		if v[i-1] >= v[i] {
			return false
		}
	}
	return true
}
