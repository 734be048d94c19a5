package reconciler

import (
	"slices"

	"github.com/agentstation/reelmap/internal/utils/ptr"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/sources"
)

// merge builds an output row from a link and its optional matches.
// Values are copied so the row shares no memory with the inputs.
func merge(link sources.Link, entry *onehot.Row, rating *sources.IMDBRating) Row {
	row := Row{
		MovieID: link.MovieID,
		TMDBID:  ptr.Clone(link.TMDBID),
	}
	if entry != nil {
		rec := entry.Record.Clone()
		row.IMDBID = rec.IMDBID
		row.Title = rec.Title
		row.OriginalLanguage = rec.OriginalLanguage
		row.ReleaseDate = rec.ReleaseDate
		row.Year = rec.Year
		row.Runtime = rec.Runtime
		row.Budget = rec.Budget
		row.Revenue = rec.Revenue
		row.Genres = slices.Clone(entry.Indicators)
		if row.Genres == nil {
			row.Genres = []uint8{}
		}
	}
	if rating != nil {
		row.IMDBAverageRating = ptr.Clone(rating.AverageRating)
		row.IMDBNumVotes = ptr.Clone(rating.NumVotes)
	}
	return row
}
