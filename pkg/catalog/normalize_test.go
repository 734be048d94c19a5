package catalog_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/errors"
)

var header = []string{
	"adult", "budget", "genres", "id", "imdb_id", "original_language",
	"title", "release_date", "revenue", "runtime",
}

// row builds a raw row in header order; a nil argument is a missing cell.
func row(cells ...any) []*string {
	out := make([]*string, len(cells))
	for i, c := range cells {
		if s, ok := c.(string); ok {
			out[i] = &s
		}
	}
	return out
}

func metadata(rows ...[]*string) *catalog.RawTable {
	return &catalog.RawTable{Name: "movies_metadata", Header: header, Rows: rows}
}

func TestNormalizeMalformedGenresYieldEmptyList(t *testing.T) {
	raw := metadata(
		row("False", "100", "[{'id':18,'name':'Drama'}]", "1", "tt001", "en", "One", "1995-10-30", "500", "81.0"),
		row("False", "0", "not a list", "2", "tt002", "fr", "Two", "1996-01-01", "0", "90"),
	)

	res, err := catalog.Normalize(context.Background(), raw, catalog.NewIDSet(1, 2))
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, int64(1), *res.Records[0].ID)
	assert.Equal(t, []string{"Drama"}, res.Records[0].GenreList)
	assert.Equal(t, int64(2), *res.Records[1].ID)
	assert.Equal(t, []string{}, res.Records[1].GenreList)
	assert.Equal(t, 1, res.Stats.EmptyGenres)
}

func TestNormalizeSchemaError(t *testing.T) {
	raw := &catalog.RawTable{
		Name:   "movies_metadata",
		Header: []string{"id", "title", "imdb_id", "release_date", "runtime", "original_language"},
	}

	_, err := catalog.Normalize(context.Background(), raw, catalog.NewIDSet(1))
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"budget", "genres", "revenue"}, schemaErr.Missing)
	assert.Equal(t, "movies_metadata", schemaErr.Table)
}

func TestNormalizeFiltersAndSorts(t *testing.T) {
	raw := metadata(
		row("False", "1", "[]", "30", "tt3", "en", "Thirty", "2001-01-01", "1", "1"),
		row("False", "1", "[]", "1997-08-20", "tt-bad", "en", "Bad id", "2001-01-01", "1", "1"),
		row("False", "1", "[]", nil, "tt-nil", "en", "Nil id", "2001-01-01", "1", "1"),
		row("False", "1", "[]", "10", "tt1", "en", "Ten", "2001-01-01", "1", "1"),
		row("False", "1", "[]", "99", "tt99", "en", "Not targeted", "2001-01-01", "1", "1"),
		row("False", "1", "[]", "10.0", "tt1b", "en", "Ten again", "2001-01-01", "1", "1"),
	)

	res, err := catalog.Normalize(context.Background(), raw, catalog.NewIDSet(10, 30))
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "Ten", *res.Records[0].Title)
	assert.Equal(t, "Ten again", *res.Records[1].Title, "ties keep input order")
	assert.Equal(t, "Thirty", *res.Records[2].Title)

	assert.Equal(t, 6, res.Stats.RowsIn)
	assert.Equal(t, 2, res.Stats.InvalidIDs)
	assert.Equal(t, 3, res.Stats.RowsKept)
}

func TestNormalizeCoercion(t *testing.T) {
	raw := metadata(
		row("False", "abc", "[{'name': 'Comedy'}]", "5", "  tt5  ", " en ", "  Padded  ", "not a date", "", "NaN"),
		row("False", "30000000", nil, "6", nil, nil, nil, nil, "373554033", "81.0"),
		row("False", "1", "[]", "7", "tt7", "en", "Month only", "1999-04", "1", "1"),
	)

	res, err := catalog.Normalize(context.Background(), raw, catalog.NewIDSet(5, 6, 7))
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	r5 := res.Records[0]
	assert.Equal(t, "tt5", *r5.IMDBID)
	assert.Equal(t, "en", *r5.OriginalLanguage)
	assert.Equal(t, "Padded", *r5.Title)
	assert.Nil(t, r5.ReleaseDate)
	assert.Nil(t, r5.Year, "a failed date yields a nil year")
	assert.Nil(t, r5.Budget)
	assert.Nil(t, r5.Revenue)
	assert.Nil(t, r5.Runtime)
	assert.Equal(t, []string{"Comedy"}, r5.GenreList)

	r6 := res.Records[1]
	assert.Nil(t, r6.IMDBID)
	assert.Nil(t, r6.Title)
	assert.Nil(t, r6.ReleaseDate)
	assert.Equal(t, 30000000.0, *r6.Budget)
	assert.Equal(t, 373554033.0, *r6.Revenue)
	assert.Equal(t, 81.0, *r6.Runtime)
	assert.Equal(t, []string{}, r6.GenreList)

	r7 := res.Records[2]
	require.NotNil(t, r7.ReleaseDate)
	assert.Equal(t, time.Date(1999, time.April, 1, 0, 0, 0, 0, time.UTC), *r7.ReleaseDate)
	assert.Equal(t, 1999, *r7.Year)

	assert.Equal(t, 1, res.Stats.InvalidDates)
	assert.Equal(t, 1, res.Stats.InvalidBudgets)
	assert.Equal(t, 1, res.Stats.InvalidRuntimes)
	assert.Equal(t, 0, res.Stats.InvalidRevenues, "blank cells are missing, not invalid")
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := metadata(
		row("False", "1", "[{'name': 'Drama'}]", "1", " tt1 ", "en", "A", "2000-01-01", "1", "1"),
	)
	before := *raw.Rows[0][4]

	_, err := catalog.Normalize(context.Background(), raw, catalog.NewIDSet(1))
	require.NoError(t, err)
	assert.Equal(t, before, *raw.Rows[0][4])
	assert.Len(t, raw.Rows, 1)
}

func TestNormalizeWorkersMatchSequential(t *testing.T) {
	var rows [][]*string
	for i := 200; i > 0; i-- {
		genresText := "[{'name': 'Drama'}]"
		if i%3 == 0 {
			genresText = "broken"
		}
		rows = append(rows, row("False", "1", genresText, strconv.Itoa(i), "tt", "en", "T", "2000-01-01", "1", "1"))
	}
	raw := metadata(rows...)
	targets := catalog.NewIDSet()
	for i := 1; i <= 200; i++ {
		targets.Add(int64(i))
	}

	seq, err := catalog.Normalize(context.Background(), raw, targets)
	require.NoError(t, err)
	par, err := catalog.Normalize(context.Background(), raw, targets, catalog.WithWorkers(8))
	require.NoError(t, err)

	assert.Equal(t, seq.Records, par.Records)
	assert.Equal(t, seq.Stats, par.Stats)
	assert.Equal(t, int64(1), *par.Records[0].ID)
}

func TestNormalizeWorkersStopOnCancel(t *testing.T) {
	var rows [][]*string
	targets := catalog.NewIDSet()
	for i := 1; i <= 200; i++ {
		rows = append(rows, row("False", "1", "[{'name': 'Drama'}]", strconv.Itoa(i), "tt", "en", "T", "2000-01-01", "1", "1"))
		targets.Add(int64(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := catalog.Normalize(ctx, metadata(rows...), targets, catalog.WithWorkers(8))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeInvalidOptions(t *testing.T) {
	_, err := catalog.Normalize(context.Background(), metadata(), catalog.NewIDSet(), catalog.WithWorkers(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = catalog.Normalize(context.Background(), nil, catalog.NewIDSet())
	assert.True(t, errors.IsValidationError(err))
}
