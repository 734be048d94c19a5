// Package runner provides the load-then-run sequence shared by the commands
// that need a reconciled table.
package runner

import (
	"context"
	"fmt"

	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/pipeline"
)

// Build loads the source files named by cfg and runs the pipeline on them
// with cfg.Workers parsing goroutines. Extra options are applied after the
// worker count.
func Build(ctx context.Context, cfg config.Config, opts ...pipeline.Option) (*pipeline.Output, error) {
	in, err := pipeline.Load(ctx, cfg)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w (run 'reelmap fetch' first)", err)
		}
		return nil, err
	}

	all := append([]pipeline.Option{pipeline.WithWorkers(cfg.Workers)}, opts...)
	return pipeline.Run(ctx, in, all...)
}
