// Package fetch provides the command that downloads the source datasets.
package fetch

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/internal/cmd/output"
	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/errors"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/sources"
)

// NewCommand creates the fetch command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "fetch [source...]",
		GroupID: "core",
		Short:   "Download the source datasets",
		Long: `Fetch downloads the datasets the pipeline reconciles:

  movielens  MovieLens "latest small" archive (ratings and links)
  kaggle     movies metadata catalog (needs KAGGLE_USERNAME and KAGGLE_KEY)
  imdb       IMDb ratings dump

A dataset whose files are already present in the data directory is
skipped unless --force is given. With no arguments every dataset is fetched.`,
		Example: `  reelmap fetch                 # Fetch every missing dataset
  reelmap fetch imdb            # Fetch only the IMDb ratings
  reelmap fetch --force kaggle  # Download the catalog again`,
		ValidArgs: validArgs(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]sources.ID, len(args))
			for i, arg := range args {
				ids[i] = sources.ID(arg)
			}

			cfg := app.Config()
			if !cfg.HasKaggleCredentials() {
				app.Logger().Debug().Msg("No Kaggle credentials configured, the catalog can only be reused from disk")
			}

			fetcher, err := sources.NewFetcher(cfg, sources.WithForce(force))
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
			defer cancel()

			outcomes, err := fetcher.Fetch(ctx, ids...)
			if err != nil {
				if errors.IsCredentialsMissing(err) {
					app.Logger().Warn().Msg("Set KAGGLE_USERNAME and KAGGLE_KEY, or REELMAP_KAGGLE_USERNAME and REELMAP_KAGGLE_KEY")
				}
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.FormatOutcomes(cmd.OutOrStdout(), outcomes, format)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "download even when the files are already present")

	return cmd
}

func validArgs() []string {
	ids := sources.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
