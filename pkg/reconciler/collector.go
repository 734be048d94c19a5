package reconciler

import (
	"github.com/agentstation/reelmap/internal/utils/ptr"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/sources"
)

// dedupLinks keeps the first link of each movieId. conflicts counts dropped
// links whose external ids differ from the kept one.
func dedupLinks(links []sources.Link) (unique []sources.Link, dupes, conflicts int) {
	seen := make(map[int64]int, len(links))
	unique = make([]sources.Link, 0, len(links))
	for _, l := range links {
		if i, ok := seen[l.MovieID]; ok {
			kept := unique[i]
			if !ptr.Equal(kept.TMDBID, l.TMDBID) || !ptr.Equal(kept.IMDBID, l.IMDBID) {
				conflicts++
			}
			continue
		}
		seen[l.MovieID] = len(unique)
		unique = append(unique, l)
	}
	return unique, len(links) - len(unique), conflicts
}

// catalogIndex keys expanded catalog rows by their id, the TMDB id.
type catalogIndex struct {
	rows       map[int64]*onehot.Row
	nullIDs    int
	duplicates int
}

// indexCatalog drops rows with a nil id and keeps the first row of each id.
func indexCatalog(t *onehot.Table) *catalogIndex {
	idx := &catalogIndex{rows: make(map[int64]*onehot.Row, t.Len())}
	for i := range t.Rows {
		row := &t.Rows[i]
		if row.ID == nil {
			idx.nullIDs++
			continue
		}
		if _, ok := idx.rows[*row.ID]; ok {
			idx.duplicates++
			continue
		}
		idx.rows[*row.ID] = row
	}
	return idx
}

func (c *catalogIndex) lookup(id int64) *onehot.Row {
	return c.rows[id]
}

// ratingIndex keys ratings by normalized tconst.
type ratingIndex struct {
	rows       map[string]*sources.IMDBRating
	duplicates int
}

// indexRatings keeps the first rating of each normalized key.
// Blank keys never match.
func indexRatings(ratings []sources.IMDBRating, normalize func(string) string) *ratingIndex {
	idx := &ratingIndex{rows: make(map[string]*sources.IMDBRating, len(ratings))}
	for i := range ratings {
		key := normalize(ratings[i].TConst)
		if key == "" {
			continue
		}
		if _, ok := idx.rows[key]; ok {
			idx.duplicates++
			continue
		}
		idx.rows[key] = &ratings[i]
	}
	return idx
}

func (r *ratingIndex) lookup(key string) *sources.IMDBRating {
	if key == "" {
		return nil
	}
	return r.rows[key]
}
