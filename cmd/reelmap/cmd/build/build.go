// Package build provides the command that runs the reconciliation pipeline
// and exports its result.
package build

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/internal/cmd/output"
	"github.com/agentstation/reelmap/internal/cmd/runner"
	"github.com/agentstation/reelmap/internal/store"
	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/constants"
	"github.com/agentstation/reelmap/pkg/logging"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/pipeline"
)

// Flags holds the export and vocabulary flags of the build command.
type Flags struct {
	SQLite      string
	CSV         string
	Vocab       string
	FreezeVocab string
}

// NewCommand creates the build command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "build",
		GroupID: "core",
		Short:   "Reconcile the datasets into one table",
		Long: `Build loads the fetched datasets, normalizes the metadata catalog,
expands genres into indicator columns and joins everything onto the
MovieLens link table.

The result is written as CSV to the results directory unless --csv or
--sqlite name other destinations. --vocab saves the genre vocabulary of
this run; --freeze-vocab reuses a saved one so that the genre columns match
an earlier run.`,
		Example: `  reelmap build                                  # Write results/movies.csv
  reelmap build --sqlite results/reelmap.db      # Write a SQLite database
  reelmap build --vocab results/genres.yaml      # Save the genre vocabulary
  reelmap build --freeze-vocab results/genres.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
			defer cancel()

			cfg := app.Config()
			out, exports, err := Run(ctx, cfg, flags)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.FormatBuild(cmd.OutOrStdout(), out, exports, format)
		},
	}

	cmd.Flags().StringVar(&flags.SQLite, "sqlite", "", "write the result to this SQLite database")
	cmd.Flags().StringVar(&flags.CSV, "csv", "", "write the result to this CSV file")
	cmd.Flags().StringVar(&flags.Vocab, "vocab", "", "save the genre vocabulary to this YAML file")
	cmd.Flags().StringVar(&flags.FreezeVocab, "freeze-vocab", "", "expand genres against the vocabulary saved in this YAML file")

	return cmd
}

// Run builds the reconciled table and writes it to the destinations named by
// flags. It returns the pipeline output and the files written.
func Run(ctx context.Context, cfg config.Config, flags *Flags) (*pipeline.Output, []string, error) {
	logger := logging.FromContext(ctx)

	var opts []pipeline.Option
	if flags.FreezeVocab != "" {
		vocab, err := onehot.LoadVocabulary(flags.FreezeVocab)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug().Str("path", flags.FreezeVocab).Int("genres", vocab.Len()).Msg("Using frozen vocabulary")
		opts = append(opts, pipeline.WithVocabulary(vocab))
	}

	out, err := runner.Build(ctx, cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	csvPath := flags.CSV
	if csvPath == "" && flags.SQLite == "" {
		csvPath = cfg.ResultPath(constants.ResultCSV)
	}

	var exports []string
	if csvPath != "" {
		if err := store.WriteCSV(csvPath, out.Result); err != nil {
			return nil, nil, err
		}
		exports = append(exports, csvPath)
	}
	if flags.SQLite != "" {
		if err := writeSQLite(ctx, flags.SQLite, out); err != nil {
			return nil, nil, err
		}
		exports = append(exports, flags.SQLite)
	}
	if flags.Vocab != "" {
		if err := onehot.SaveVocabulary(flags.Vocab, out.Result.Vocabulary); err != nil {
			return nil, nil, err
		}
		exports = append(exports, flags.Vocab)
	}

	logger.Info().Strs("files", exports).Str("run_id", out.RunID).Msg("Exported result")
	return out, exports, nil
}

func writeSQLite(ctx context.Context, path string, out *pipeline.Output) error {
	db, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	if err := db.Write(ctx, out); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}
