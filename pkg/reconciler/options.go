package reconciler

import (
	"github.com/agentstation/reelmap/pkg/errors"
)

type options struct {
	// normalizeKey is applied to catalog imdb_id and ratings tconst alike.
	normalizeKey func(string) string
}

// Option configures a Reconciler.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := &options{normalizeKey: TrimKey}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithKeyNormalizer replaces TrimKey as the IMDb join key normalization.
// A key that normalizes to "" never matches.
func WithKeyNormalizer(fn func(string) string) Option {
	return func(o *options) error {
		if fn == nil {
			return &errors.ValidationError{Field: "key_normalizer", Message: "cannot be nil"}
		}
		o.normalizeKey = fn
		return nil
	}
}
