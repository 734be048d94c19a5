// Package vocab provides the command that lists the genre vocabulary.
package vocab

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/internal/cmd/output"
	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/sources"
)

// NewCommand creates the vocab command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "vocab",
		GroupID: "analysis",
		Short:   "List the genre columns of the current batch",
		Long: `Vocab normalizes the metadata catalog rows referenced by the link
table and prints the sorted genre vocabulary, which is the order of the
genre indicator columns in the reconciled table. Use -o wide to include
how many movies carry each genre.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
			defer cancel()

			expanded, err := Expand(ctx, app.Config().LinksPath(), app.Config().MetadataPath(), app.Config().Workers)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.FormatVocabulary(cmd.OutOrStdout(), expanded, format)
		},
	}
}

// Expand loads only the link table and the catalog, which is all the
// vocabulary depends on, and expands the normalized catalog rows.
func Expand(ctx context.Context, linksPath, metadataPath string, workers int) (*onehot.Table, error) {
	links, err := sources.LoadLinks(linksPath)
	if err != nil {
		return nil, err
	}
	raw, err := sources.LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	targets := catalog.NewIDSet(sources.TMDBIDs(links)...)
	normalized, err := catalog.Normalize(logging.WithStage(ctx, "normalize"), raw, targets, catalog.WithWorkers(workers))
	if err != nil {
		return nil, err
	}
	return onehot.Expand(normalized.Records)
}
