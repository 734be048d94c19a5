package catalog

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/genres"
	"github.com/agentstation/reelmap/pkg/logging"
)

// Stats counts what normalization did to a batch.
type Stats struct {
	RowsIn          int `json:"rows_in" yaml:"rows_in"`
	InvalidIDs      int `json:"invalid_ids" yaml:"invalid_ids"`
	RowsKept        int `json:"rows_kept" yaml:"rows_kept"`
	InvalidDates    int `json:"invalid_dates" yaml:"invalid_dates"`
	InvalidRuntimes int `json:"invalid_runtimes" yaml:"invalid_runtimes"`
	InvalidBudgets  int `json:"invalid_budgets" yaml:"invalid_budgets"`
	InvalidRevenues int `json:"invalid_revenues" yaml:"invalid_revenues"`
	EmptyGenres     int `json:"empty_genres" yaml:"empty_genres"`
}

// Result is the outcome of normalizing a batch.
type Result struct {
	Records []Record
	Stats   Stats
}

type options struct {
	workers int
}

// Option configures Normalize.
type Option func(*options) error

// WithWorkers parses genre fields with up to n goroutines.
// Output does not depend on n.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{
				Field:   "workers",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		o.workers = n
		return nil
	}
}

// Normalize validates raw against MetadataSchema, keeps the rows whose id is
// in targets, and coerces every field. The input table is not modified.
//
// Records are sorted by id ascending; ties keep input order. Rows with a nil
// id never survive the target filter, so the order is total.
func Normalize(ctx context.Context, raw *RawTable, targets IDSet, opts ...Option) (*Result, error) {
	o := &options{workers: 1}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	if raw == nil {
		return nil, &errors.ValidationError{Field: "table", Message: "cannot be nil"}
	}
	schema := MetadataSchema
	if raw.Name != "" {
		schema.Table = raw.Name
	}
	if err := schema.Validate(raw.Header); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	cols := schema.Project(raw.Header)
	pos := make(map[string]int, len(cols))
	for i, f := range schema.Fields {
		pos[f.Name] = cols[i]
	}

	stats := Stats{RowsIn: raw.Len()}

	// id coercion and target filtering
	var kept []int
	ids := make(map[int]int64)
	idCol := pos[FieldID]
	for i := range raw.Rows {
		id := ParseInt(raw.Cell(i, idCol))
		if id == nil {
			stats.InvalidIDs++
			continue
		}
		if targets.Has(*id) {
			kept = append(kept, i)
			ids[i] = *id
		}
	}
	stats.RowsKept = len(kept)

	records := make([]Record, len(kept))
	for j, i := range kept {
		id := ids[i]
		rec := Record{
			ID:               &id,
			IMDBID:           TrimString(raw.Cell(i, pos[FieldIMDBID])),
			Title:            TrimString(raw.Cell(i, pos[FieldTitle])),
			OriginalLanguage: TrimString(raw.Cell(i, pos[FieldOriginalLanguage])),
			ReleaseDate:      ParseDate(raw.Cell(i, pos[FieldReleaseDate])),
			Runtime:          ParseFloat(raw.Cell(i, pos[FieldRuntime])),
			Budget:           ParseFloat(raw.Cell(i, pos[FieldBudget])),
			Revenue:          ParseFloat(raw.Cell(i, pos[FieldRevenue])),
		}
		rec.Year = YearOf(rec.ReleaseDate)

		stats.InvalidDates += failed(raw.Cell(i, pos[FieldReleaseDate]), rec.ReleaseDate == nil)
		stats.InvalidRuntimes += failed(raw.Cell(i, pos[FieldRuntime]), rec.Runtime == nil)
		stats.InvalidBudgets += failed(raw.Cell(i, pos[FieldBudget]), rec.Budget == nil)
		stats.InvalidRevenues += failed(raw.Cell(i, pos[FieldRevenue]), rec.Revenue == nil)
		records[j] = rec
	}

	genreCol := pos[FieldGenres]
	if err := parseGenres(ctx, raw, kept, genreCol, records, o.workers); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if len(rec.GenreList) == 0 {
			stats.EmptyGenres++
		}
	}

	sort.SliceStable(records, func(a, b int) bool {
		return *records[a].ID < *records[b].ID
	})

	logger.Debug().
		Int("rows_in", stats.RowsIn).
		Int("rows_kept", stats.RowsKept).
		Int("invalid_ids", stats.InvalidIDs).
		Int("invalid_dates", stats.InvalidDates).
		Int("empty_genres", stats.EmptyGenres).
		Msg("Normalized metadata")

	return &Result{Records: records, Stats: stats}, nil
}

// parseGenres fills GenreList for every kept row, fanning out when workers > 1.
func parseGenres(ctx context.Context, raw *RawTable, kept []int, col int, records []Record, workers int) error {
	if workers <= 1 || len(kept) < workers {
		for j, i := range kept {
			records[j].GenreList = genres.ParseList(raw.Cell(i, col))
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(kept) + workers - 1) / workers
	for start := 0; start < len(kept); start += chunk {
		end := min(start+chunk, len(kept))
		g.Go(func() error {
			for j := start; j < end; j++ {
				if j%1024 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				records[j].GenreList = genres.ParseList(raw.Cell(kept[j], col))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &errors.ResourceError{
			Operation: "normalize",
			Resource:  "genres",
			Message:   "genre parsing interrupted",
			Err:       err,
		}
	}
	return nil
}

// failed returns 1 when a present, non-blank cell did not coerce.
func failed(cell *string, isNil bool) int {
	if !isNil || cell == nil || genres.IsBlank(*cell) {
		return 0
	}
	return 1
}
