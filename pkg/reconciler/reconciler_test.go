package reconciler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reelmap/internal/utils/ptr"
	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/reconciler"
	"github.com/agentstation/reelmap/pkg/sources"
)

func link(movie int64, tmdb *int64) sources.Link {
	return sources.Link{MovieID: movie, TMDBID: tmdb}
}

func movie(id int64, imdb, title string, genres ...string) catalog.Record {
	if genres == nil {
		genres = []string{}
	}
	return catalog.Record{
		ID:        ptr.Int64(id),
		IMDBID:    ptr.String(imdb),
		Title:     ptr.String(title),
		Runtime:   ptr.Float64(81),
		GenreList: genres,
	}
}

func expand(t *testing.T, records ...catalog.Record) *onehot.Table {
	t.Helper()
	table, err := onehot.Expand(records)
	require.NoError(t, err)
	return table
}

func reconcile(t *testing.T, links []sources.Link, table *onehot.Table, ratings []sources.IMDBRating) *reconciler.Result {
	t.Helper()
	r, err := reconciler.New()
	require.NoError(t, err)
	res, err := r.Reconcile(context.Background(), links, table, ratings)
	require.NoError(t, err)
	return res
}

func TestReconcileUnmatchedLink(t *testing.T) {
	table := expand(t, movie(862, "tt0114709", "Toy Story", "Animation", "Comedy"))
	links := []sources.Link{
		link(10, ptr.Int64(862)),
		link(11, ptr.Int64(999999)),
	}

	res := reconcile(t, links, table, nil)
	require.Len(t, res.Rows, 2)

	toy, ok := find(res, 10)
	require.True(t, ok)
	assert.Equal(t, "Toy Story", *toy.Title)
	assert.Equal(t, []uint8{1, 1}, toy.Genres)
	assert.True(t, toy.HasCatalog())

	missing, ok := find(res, 11)
	require.True(t, ok)
	assert.Equal(t, int64(999999), *missing.TMDBID)
	assert.Nil(t, missing.Title)
	assert.Nil(t, missing.Runtime)
	assert.Nil(t, missing.Genres, "unknown genres are not all-zero")
	assert.False(t, missing.HasCatalog())
	assert.Equal(t, 1, res.Stats.CatalogMatches)
}

func TestReconcileTrimsRatingKey(t *testing.T) {
	table := expand(t, movie(862, "  tt0114709 ", "Toy Story"))
	ratings := []sources.IMDBRating{
		{TConst: "tt0114709\t", AverageRating: ptr.Float64(8.3), NumVotes: ptr.Int64(1000)},
	}

	res := reconcile(t, []sources.Link{link(1, ptr.Int64(862))}, table, ratings)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, 8.3, *row.IMDBAverageRating)
	assert.Equal(t, int64(1000), *row.IMDBNumVotes)
	assert.Equal(t, 1, res.Stats.RatingMatches)
}

func TestReconcileDuplicateCatalogFirstWins(t *testing.T) {
	first := movie(862, "tt0114709", "First", "Drama")
	second := movie(862, "tt9999999", "Second", "Comedy")
	table := expand(t, first, second)

	res := reconcile(t, []sources.Link{link(1, ptr.Int64(862))}, table, nil)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Equal(t, "First", *row.Title)
	assert.Equal(t, "tt0114709", *row.IMDBID)
	assert.Equal(t, onehot.Vocabulary{"Comedy", "Drama"}, res.Vocabulary)
	assert.Equal(t, []uint8{0, 1}, row.Genres, "every field comes from the first record")
	assert.Equal(t, 1, res.Stats.CatalogDuplicates)
}

func TestReconcileDuplicateRatingsFirstWins(t *testing.T) {
	table := expand(t, movie(862, "tt0114709", "Toy Story"))
	ratings := []sources.IMDBRating{
		{TConst: "tt0114709", AverageRating: ptr.Float64(8.3), NumVotes: ptr.Int64(1)},
		{TConst: " tt0114709", AverageRating: ptr.Float64(1.0), NumVotes: ptr.Int64(2)},
	}

	res := reconcile(t, []sources.Link{link(1, ptr.Int64(862))}, table, ratings)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 8.3, *res.Rows[0].IMDBAverageRating)
	assert.Equal(t, 1, res.Stats.RatingDuplicates)
}

func TestReconcileDuplicateLinksFirstWins(t *testing.T) {
	table := expand(t, movie(862, "tt0114709", "Toy Story"), movie(863, "tt2", "Other"))
	links := []sources.Link{
		link(1, ptr.Int64(862)),
		link(1, ptr.Int64(863)),
		link(2, nil),
		link(2, nil),
	}

	res := reconcile(t, links, table, nil)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Toy Story", *res.Rows[0].Title)
	assert.Equal(t, int64(2), res.Rows[1].MovieID)
	assert.Nil(t, res.Rows[1].TMDBID)
	assert.Equal(t, 2, res.Stats.DuplicateLinks)
	assert.Equal(t, 1, res.Stats.ConflictingLinks, "an identical repeat is not a conflict")
}

func TestReconcileCardinality(t *testing.T) {
	nullID := movie(0, "tt0", "Null id")
	nullID.ID = nil
	table := expand(t,
		movie(1, "tt1", "A", "Drama"),
		movie(1, "tt1", "A again", "Drama"),
		movie(2, "tt2", "B"),
		nullID,
	)
	ratings := []sources.IMDBRating{
		{TConst: "tt1", AverageRating: ptr.Float64(7)},
		{TConst: "tt1", AverageRating: ptr.Float64(6)},
		{TConst: "tt2", AverageRating: ptr.Float64(5)},
		{TConst: "", AverageRating: ptr.Float64(4)},
	}
	var links []sources.Link
	for i := int64(1); i <= 20; i++ {
		links = append(links, link(i, ptr.Int64(i%3)))
		links = append(links, link(i, ptr.Int64(i%2)))
	}

	res := reconcile(t, links, table, ratings)
	assert.Len(t, res.Rows, 20)
	assert.Equal(t, 20, res.Stats.Rows)
	assert.Equal(t, 1, res.Stats.CatalogNullIDs)

	seen := map[int64]bool{}
	for _, row := range res.Rows {
		assert.False(t, seen[row.MovieID], "movieId %d repeated", row.MovieID)
		seen[row.MovieID] = true
	}
}

func TestReconcileDoesNotShareMemory(t *testing.T) {
	table := expand(t, movie(862, "tt0114709", "Toy Story", "Drama"))
	res := reconcile(t, []sources.Link{link(1, ptr.Int64(862))}, table, nil)

	*res.Rows[0].Title = "changed"
	res.Rows[0].Genres[0] = 0
	assert.Equal(t, "Toy Story", *table.Rows[0].Title)
	assert.Equal(t, uint8(1), table.Rows[0].Indicators[0])
}

func TestReconcileColumns(t *testing.T) {
	table := expand(t, movie(1, "tt1", "A", "Drama", "Action"))
	res := reconcile(t, []sources.Link{link(1, ptr.Int64(1)), link(2, nil)}, table, nil)

	assert.Equal(t, []string{
		"movieId", "tmdbId", "imdbId", "title", "original_language", "release_date",
		"year", "runtime", "budget", "revenue", "Action", "Drama",
		"imdb_averageRating", "imdb_numVotes",
	}, res.Columns)

	values := res.Values()
	require.Len(t, values, 2)
	assert.Len(t, values[0], len(res.Columns))
	assert.Equal(t, []any{int64(1), int64(1), "tt1", "A", nil, nil, nil, 81.0, nil, nil, uint8(1), uint8(1), nil, nil}, values[0])
	assert.Equal(t, []any{int64(2), nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}, values[1])

	assert.True(t, reconciler.IsGenreColumn("Drama"))
	assert.False(t, reconciler.IsGenreColumn("imdb_numVotes"))
	assert.Contains(t, res.Summary(), "Reconciled 2 movies")
}

func TestColumnsRenameClashingGenres(t *testing.T) {
	cols := reconciler.Columns([]string{"Drama", "Title", "YEAR", "genre_Title"})

	genres := cols[10 : len(cols)-2]
	assert.Equal(t, []string{"Drama", "genre_Title", "genre_YEAR", "genre_genre_Title"}, genres)

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		key := strings.ToLower(c)
		assert.False(t, seen[key], "duplicate column %q", c)
		seen[key] = true
	}
	assert.True(t, reconciler.IsGenreColumn("genre_Title"))
}

func TestResultMetadataTimestamps(t *testing.T) {
	res := reconciler.NewResult(onehot.Vocabulary{"Drama"})
	assert.False(t, res.Metadata.StartTime.IsZero())
	assert.True(t, res.Metadata.EndTime.IsZero())

	res.Finalize()
	assert.False(t, res.Metadata.EndTime.Time.Before(res.Metadata.StartTime.Time))
	assert.Equal(t, res.Metadata.EndTime.Time.Sub(res.Metadata.StartTime.Time), res.Metadata.Duration)
}

func TestReconcileOptions(t *testing.T) {
	_, err := reconciler.New(reconciler.WithKeyNormalizer(nil))
	assert.True(t, errors.IsValidationError(err))

	r, err := reconciler.New()
	require.NoError(t, err)
	_, err = r.Reconcile(context.Background(), nil, nil, nil)
	assert.True(t, errors.IsValidationError(err))
}

func find(res *reconciler.Result, movieID int64) (reconciler.Row, bool) {
	for _, row := range res.Rows {
		if row.MovieID == movieID {
			return row, true
		}
	}
	return reconciler.Row{}, false
}
