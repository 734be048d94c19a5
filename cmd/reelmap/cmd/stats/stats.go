// Package stats provides the command that summarizes a reconciled table.
package stats

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/internal/cmd/output"
	"github.com/agentstation/reelmap/internal/cmd/runner"
	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/stats"
)

// NewCommand creates the stats command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		GroupID: "analysis",
		Short:   "Summarize the reconciled datasets",
		Long: `Stats runs the pipeline and prints the numbers behind the usual
exploratory plots: ratings per user with quartiles, movies per release
year, per original language and per genre, and how IMDb average ratings
relate to vote counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
			defer cancel()

			out, err := runner.Build(ctx, app.Config())
			if err != nil {
				return err
			}

			report := stats.Compute(out.Result, out.Ratings)
			format := output.DetectFormat(app.OutputFormat())
			return output.FormatReport(cmd.OutOrStdout(), report, format)
		},
	}
}
