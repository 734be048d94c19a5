// Package catalog validates and normalizes the movies metadata catalog.
//
// The raw catalog arrives as string cells keyed by header name. Normalize
// checks it against the metadata Schema, keeps only the movies referenced by
// the rating log, coerces every field to its type and parses the serialized
// genre list. Cells that fail coercion become nil; only a missing required
// column fails the batch.
package catalog

import (
	"slices"

	"github.com/agentstation/reelmap/pkg/errors"
)

// Kind is the type a column is coerced to.
type Kind int

// Column kinds.
const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindDate
	KindGenreList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindGenreList:
		return "genre_list"
	default:
		return "string"
	}
}

// Field describes one required column.
type Field struct {
	Name string
	Kind Kind
}

// Schema is an ordered list of required columns.
type Schema struct {
	Table  string
	Fields []Field
}

// Metadata column names.
const (
	FieldID               = "id"
	FieldIMDBID           = "imdb_id"
	FieldTitle            = "title"
	FieldOriginalLanguage = "original_language"
	FieldReleaseDate      = "release_date"
	FieldRuntime          = "runtime"
	FieldBudget           = "budget"
	FieldRevenue          = "revenue"
	FieldGenres           = "genres"
)

// MetadataSchema is the set of columns the normalizer requires.
var MetadataSchema = Schema{
	Table: "movies_metadata",
	Fields: []Field{
		{Name: FieldID, Kind: KindInt},
		{Name: FieldIMDBID, Kind: KindString},
		{Name: FieldTitle, Kind: KindString},
		{Name: FieldOriginalLanguage, Kind: KindString},
		{Name: FieldReleaseDate, Kind: KindDate},
		{Name: FieldRuntime, Kind: KindFloat},
		{Name: FieldBudget, Kind: KindFloat},
		{Name: FieldRevenue, Kind: KindFloat},
		{Name: FieldGenres, Kind: KindGenreList},
	},
}

// Names returns the required column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks that every required column is present in header.
// It returns a *errors.SchemaError listing the missing columns in sorted order.
func (s Schema) Validate(header []string) error {
	var missing []string
	for _, f := range s.Fields {
		if !slices.Contains(header, f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return errors.NewSchemaError(s.Table, missing)
}

// Project returns the position of each schema field in header, in schema order.
// The first occurrence wins when a header name repeats. Call Validate first.
func (s Schema) Project(header []string) []int {
	idx := make([]int, len(s.Fields))
	for i, f := range s.Fields {
		idx[i] = slices.Index(header, f.Name)
	}
	return idx
}
