// Package reconciler joins the MovieLens link table with the expanded movie
// catalog and the IMDb ratings into one row per MovieLens movie.
//
// Both joins are left joins against tables deduplicated on their join key,
// so the output has exactly one row per distinct link movieId. A movie with
// no catalog match keeps nil catalog fields and nil genre indicators; a movie
// with no rating match keeps nil rating fields.
package reconciler

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/sources"
)

// Reconciler joins the three datasets.
type Reconciler interface {
	// Reconcile left-joins links with the expanded catalog on the TMDB id,
	// then with the ratings on the IMDb id. Inputs are not modified.
	Reconcile(ctx context.Context, links []sources.Link, expanded *onehot.Table, ratings []sources.IMDBRating) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	normalizeKey func(string) string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{normalizeKey: options.normalizeKey}, nil
}

// reconcileContext holds shared state for one reconciliation.
type reconcileContext struct {
	logger  *zerolog.Logger
	result  *Result
	catalog *catalogIndex
	ratings *ratingIndex
}

// Reconcile performs the reconciliation step by step.
func (r *reconciler) Reconcile(ctx context.Context, links []sources.Link, expanded *onehot.Table, ratings []sources.IMDBRating) (*Result, error) {
	// Step 1: Validate inputs and set up context
	if expanded == nil {
		return nil, &errors.ValidationError{Field: "expanded", Message: "cannot be nil"}
	}
	rctx := &reconcileContext{
		logger: logging.FromContext(ctx),
		result: NewResult(expanded.Vocabulary),
	}

	// Step 2: Deduplicate links by movieId, first seen wins
	unique, dupes, conflicts := dedupLinks(links)
	rctx.result.Stats.LinksIn = len(links)
	rctx.result.Stats.DuplicateLinks = dupes
	rctx.result.Stats.ConflictingLinks = conflicts
	if dupes > 0 {
		rctx.logger.Warn().Int("duplicates", dupes).Int("conflicting", conflicts).Msg("Dropped duplicate links")
	}

	// Step 3: Key the catalog by TMDB id
	rctx.catalog = indexCatalog(expanded)
	rctx.result.Stats.CatalogNullIDs = rctx.catalog.nullIDs
	rctx.result.Stats.CatalogDuplicates = rctx.catalog.duplicates

	// Step 4: Key the ratings by normalized IMDb id
	rctx.ratings = indexRatings(ratings, r.normalizeKey)
	rctx.result.Stats.RatingsIn = len(ratings)
	rctx.result.Stats.RatingDuplicates = rctx.ratings.duplicates

	// Step 5: Join
	r.join(rctx, unique)

	rctx.result.Finalize()
	rctx.logger.Info().
		Int("rows", rctx.result.Stats.Rows).
		Int("catalog_matches", rctx.result.Stats.CatalogMatches).
		Int("rating_matches", rctx.result.Stats.RatingMatches).
		Int("genres", len(expanded.Vocabulary)).
		Dur("duration", rctx.result.Metadata.Duration).
		Msg("Reconciled datasets")

	return rctx.result, nil
}

// join produces one row per unique link.
func (r *reconciler) join(rctx *reconcileContext, links []sources.Link) {
	rows := make([]Row, 0, len(links))
	stats := &rctx.result.Stats
	for _, link := range links {
		var entry *onehot.Row
		if link.TMDBID != nil {
			entry = rctx.catalog.lookup(*link.TMDBID)
		}

		var rating *sources.IMDBRating
		if entry != nil {
			stats.CatalogMatches++
			if entry.IMDBID != nil {
				rating = rctx.ratings.lookup(r.normalizeKey(*entry.IMDBID))
			}
		}
		if rating != nil {
			stats.RatingMatches++
		}

		rows = append(rows, merge(link, entry, rating))
	}
	rctx.result.Rows = rows
	stats.Rows = len(rows)
}

// TrimKey is the default join key normalization.
func TrimKey(s string) string {
	return strings.TrimSpace(s)
}
