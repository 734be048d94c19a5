package sources

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/reelmap/internal/transport"
	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
)

// KaggleKeep lists the files kept after extracting the Kaggle archive.
var KaggleKeep = []string{
	constants.KaggleMetadata,
	constants.KaggleLinksSmall,
	constants.KaggleRatingSmall,
}

// Status is what happened to one dataset during a fetch.
type Status string

// Fetch statuses.
const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
)

// Outcome reports the fetch of one dataset.
type Outcome struct {
	ID       ID            `json:"id" yaml:"id"`
	Status   Status        `json:"status" yaml:"status"`
	Path     string        `json:"path" yaml:"path"`
	Bytes    int64         `json:"bytes" yaml:"bytes"`
	Removed  []string      `json:"removed,omitempty" yaml:"removed,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

type fetchOptions struct {
	force      bool
	httpClient *http.Client
}

// Option configures a Fetcher.
type Option func(*fetchOptions) error

// WithForce downloads datasets even when they are already present.
func WithForce(force bool) Option {
	return func(o *fetchOptions) error {
		o.force = force
		return nil
	}
}

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *fetchOptions) error {
		if hc == nil {
			return &errors.ValidationError{Field: "http_client", Message: "cannot be nil"}
		}
		o.httpClient = hc
		return nil
	}
}

// Fetcher downloads the source datasets into the configured data directory.
type Fetcher struct {
	cfg  config.Config
	opts fetchOptions
}

// NewFetcher returns a Fetcher for cfg.
func NewFetcher(cfg config.Config, opts ...Option) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Fetcher{cfg: cfg}
	for _, opt := range opts {
		if err := opt(&f.opts); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Fetch downloads the given datasets concurrently, or all of them when ids is
// empty. Outcomes are returned in the order of ids.
func (f *Fetcher) Fetch(ctx context.Context, ids ...ID) ([]Outcome, error) {
	if len(ids) == 0 {
		ids = IDs()
	}
	for _, id := range ids {
		if !id.IsValid() {
			return nil, &errors.ValidationError{Field: "source", Value: id, Message: "unknown dataset"}
		}
	}

	outcomes := make([]Outcome, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			ctx := logging.WithDataset(gctx, id.String())
			if f.cfg.DownloadTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, f.cfg.DownloadTimeout)
				defer cancel()
			}

			start := time.Now()
			out, err := f.fetch(ctx, id)
			if err != nil {
				return err
			}
			out.ID = id
			out.Duration = time.Since(start)
			outcomes[i] = out

			logging.FromContext(ctx).Info().
				Str("status", string(out.Status)).
				Str("path", out.Path).
				Dur("duration", out.Duration).
				Msg("Fetched dataset")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (f *Fetcher) fetch(ctx context.Context, id ID) (Outcome, error) {
	switch id {
	case MovieLensID:
		return f.fetchMovieLens(ctx)
	case KaggleID:
		return f.fetchKaggle(ctx)
	default:
		return f.fetchIMDB(ctx)
	}
}

func (f *Fetcher) client(source string, auth transport.Authenticator) *transport.Client {
	c := transport.New(source, auth).WithTimeout(0)
	if f.opts.httpClient != nil {
		c = c.WithHTTPClient(f.opts.httpClient)
	}
	return c
}

// fetchMovieLens downloads and extracts the MovieLens archive.
func (f *Fetcher) fetchMovieLens(ctx context.Context) (Outcome, error) {
	dir := f.cfg.MovieLensDir()
	extracted := f.cfg.MovieLensPath()
	if !f.opts.force {
		if info, err := os.Stat(extracted); err == nil && info.IsDir() {
			return Outcome{Status: StatusSkipped, Path: extracted}, nil
		}
	}

	archive := filepath.Join(dir, constants.MovieLensExtract+".zip")
	n, err := f.client(MovieLensID.String(), nil).Download(ctx, f.cfg.MovieLensURL, archive)
	if err != nil {
		return Outcome{}, err
	}
	defer func() { _ = os.Remove(archive) }()

	if _, err := extractZip(archive, dir); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: StatusDownloaded, Path: extracted, Bytes: n}, nil
}

// fetchKaggle downloads the Kaggle dataset archive with basic auth, extracts
// it and removes every file not listed in KaggleKeep.
func (f *Fetcher) fetchKaggle(ctx context.Context) (Outcome, error) {
	dir := f.cfg.KaggleDir()
	keep := make([]string, len(KaggleKeep))
	for i, name := range KaggleKeep {
		keep[i] = filepath.Join(dir, name)
	}
	if !f.opts.force && nonEmpty(keep...) {
		return Outcome{Status: StatusSkipped, Path: dir}, nil
	}

	auth := &transport.BasicAuth{Username: f.cfg.KaggleUsername, Password: f.cfg.KaggleKey}
	if auth.Anonymous() {
		return Outcome{}, &errors.AuthenticationError{
			Source:  KaggleID.String(),
			Method:  "basic",
			Message: "KAGGLE_USERNAME and KAGGLE_KEY must be set",
		}
	}

	endpoint, err := url.JoinPath(f.cfg.KaggleAPIURL, strings.Split(f.cfg.KaggleDataset, "/")...)
	if err != nil {
		return Outcome{}, &errors.ConfigError{Component: "kaggle", Message: "invalid dataset URL", Err: err}
	}
	archive := filepath.Join(dir, filepath.Base(f.cfg.KaggleDataset)+".zip")
	n, err := f.client(KaggleID.String(), auth).Download(ctx, endpoint, archive)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := extractZip(archive, dir); err != nil {
		_ = os.Remove(archive)
		return Outcome{}, err
	}
	removed, err := prune(dir, KaggleKeep)
	if err != nil {
		return Outcome{}, err
	}
	for _, name := range removed {
		logging.FromContext(ctx).Debug().Str("file", name).Msg("Removed unneeded file")
	}
	return Outcome{Status: StatusDownloaded, Path: dir, Bytes: n, Removed: removed}, nil
}

// fetchIMDB downloads the gzipped ratings dump and decompresses it.
func (f *Fetcher) fetchIMDB(ctx context.Context) (Outcome, error) {
	tsv := f.cfg.IMDBRatingsPath()
	if !f.opts.force && nonEmpty(tsv) {
		return Outcome{Status: StatusSkipped, Path: tsv}, nil
	}

	gz := tsv + ".gz"
	n, err := f.client(IMDBID.String(), nil).Download(ctx, f.cfg.IMDBRatingsURL, gz)
	if err != nil {
		return Outcome{}, err
	}
	defer func() { _ = os.Remove(gz) }()

	if err := gunzipFile(gz, tsv); err != nil {
		return Outcome{}, err
	}
	return Outcome{Status: StatusDownloaded, Path: tsv, Bytes: n}, nil
}
