// Package pipeline wires the stages together: load the source files,
// normalize the catalog, expand genres and reconcile the three datasets.
package pipeline

import (
	"context"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/ratings"
	"github.com/agentstation/reelmap/pkg/reconciler"
	"github.com/agentstation/reelmap/pkg/sources"
)

// Input is the loaded source data.
type Input struct {
	Ratings  *ratings.Matrix
	Links    []sources.Link
	Metadata *catalog.RawTable
	IMDB     []sources.IMDBRating
}

// Output is the result of one run.
type Output struct {
	RunID     string
	StartedAt utc.Time
	Normalize catalog.Stats
	Expand    onehot.Stats
	Result    *reconciler.Result
	Ratings   *ratings.Matrix
}

// Load reads the four source files named by cfg concurrently.
func Load(ctx context.Context, cfg config.Config) (*Input, error) {
	logger := logging.FromContext(ctx)
	in := &Input{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := sources.LoadRatings(cfg.RatingsPath())
		in.Ratings = m
		return err
	})
	g.Go(func() error {
		links, err := sources.LoadLinks(cfg.LinksPath())
		in.Links = links
		return err
	})
	g.Go(func() error {
		table, err := sources.LoadMetadata(cfg.MetadataPath())
		in.Metadata = table
		return err
	})
	g.Go(func() error {
		rs, err := sources.LoadIMDBRatings(cfg.IMDBRatingsPath())
		in.IMDB = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("users", len(in.Ratings.Users())).
		Int("links", len(in.Links)).
		Int("catalog_rows", in.Metadata.Len()).
		Int("imdb_ratings", len(in.IMDB)).
		Msg("Loaded datasets")
	return in, nil
}

type options struct {
	workers    int
	vocabulary onehot.Vocabulary
	runID      string
}

// Option configures Run.
type Option func(*options) error

// WithWorkers parses genre fields with up to n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return &errors.ValidationError{Field: "workers", Value: n, Message: "must be at least 1"}
		}
		o.workers = n
		return nil
	}
}

// WithVocabulary freezes the genre columns.
func WithVocabulary(v onehot.Vocabulary) Option {
	return func(o *options) error {
		if v == nil {
			return &errors.ValidationError{Field: "vocabulary", Message: "cannot be nil"}
		}
		o.vocabulary = v
		return nil
	}
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) error {
		if _, err := uuid.Parse(id); err != nil {
			return &errors.ValidationError{Field: "run_id", Value: id, Message: "must be a UUID"}
		}
		o.runID = id
		return nil
	}
}

// Run executes normalize, expand and reconcile on in. Stages never modify
// their input, so in can be reused.
func Run(ctx context.Context, in *Input, opts ...Option) (*Output, error) {
	o := &options{workers: 1}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if in == nil || in.Metadata == nil {
		return nil, &errors.ValidationError{Field: "input", Message: "metadata table is required"}
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}

	ctx = logging.WithRunID(ctx, o.runID)
	out := &Output{RunID: o.runID, StartedAt: utc.Now(), Ratings: in.Ratings}

	// Stage 1: normalize the catalog rows referenced by the links
	targets := catalog.NewIDSet(sources.TMDBIDs(in.Links)...)
	normalized, err := catalog.Normalize(logging.WithStage(ctx, "normalize"), in.Metadata, targets,
		catalog.WithWorkers(o.workers))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}
	out.Normalize = normalized.Stats
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	// Stage 2: expand genres
	var expandOpts []onehot.Option
	if o.vocabulary != nil {
		expandOpts = append(expandOpts, onehot.WithVocabulary(o.vocabulary))
	}
	expanded, err := onehot.Expand(normalized.Records, expandOpts...)
	if err != nil {
		return nil, err
	}
	out.Expand = expanded.Stats
	if expanded.Stats.Unknown > 0 {
		logging.FromContext(ctx).Warn().
			Int("mentions", expanded.Stats.Unknown).
			Strs("genres", expanded.Stats.UnknownGenres).
			Msg("Genres outside the frozen vocabulary were ignored")
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	// Stage 3: reconcile
	r, err := reconciler.New()
	if err != nil {
		return nil, err
	}
	out.Result, err = r.Reconcile(logging.WithStage(ctx, "reconcile"), in.Links, expanded, in.IMDB)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func canceled(err error) error {
	if err == context.DeadlineExceeded {
		return errors.NewTimeoutError("pipeline", "", err.Error())
	}
	return errors.WrapResource("run", "pipeline", "", errors.ErrCanceled)
}
