package output

import (
	"io"

	"github.com/agentstation/reelmap/internal/cmd/table"
	"github.com/agentstation/reelmap/pkg/catalog"
	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/pipeline"
	"github.com/agentstation/reelmap/pkg/reconciler"
	"github.com/agentstation/reelmap/pkg/sources"
	"github.com/agentstation/reelmap/pkg/stats"
)

// BuildSummary is the structured form of a pipeline run.
type BuildSummary struct {
	RunID      string           `json:"run_id" yaml:"run_id"`
	Normalize  catalog.Stats    `json:"normalize" yaml:"normalize"`
	Expand     onehot.Stats     `json:"expand" yaml:"expand"`
	Reconcile  reconciler.Stats `json:"reconcile" yaml:"reconcile"`
	Vocabulary []string         `json:"vocabulary" yaml:"vocabulary"`
	Exports    []string         `json:"exports,omitempty" yaml:"exports,omitempty"`
}

// VocabularyEntry is one genre column.
type VocabularyEntry struct {
	Index  int    `json:"index" yaml:"index"`
	Genre  string `json:"genre" yaml:"genre"`
	Movies int    `json:"movies" yaml:"movies"`
}

// FormatOutcomes writes download outcomes.
func FormatOutcomes(w io.Writer, outcomes []sources.Outcome, format Format) error {
	var data any = outcomes
	if format.IsTable() {
		data = table.OutcomesToTableData(outcomes)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatBuild writes the summary of a pipeline run. exports lists the files
// the run was written to.
func FormatBuild(w io.Writer, out *pipeline.Output, exports []string, format Format) error {
	var data any
	if format.IsTable() {
		data = table.BuildToTableData(out)
	} else {
		data = BuildSummary{
			RunID:      out.RunID,
			Normalize:  out.Normalize,
			Expand:     out.Expand,
			Reconcile:  out.Result.Stats,
			Vocabulary: out.Result.Vocabulary,
			Exports:    exports,
		}
	}
	return NewFormatter(format).Format(w, data)
}

// FormatReport writes a statistics report.
func FormatReport(w io.Writer, r stats.Report, format Format) error {
	var data any = r
	if format.IsTable() {
		data = table.ReportToTableData(r)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatVocabulary writes the genre columns. Row counts are included in
// structured output and in wide tables.
func FormatVocabulary(w io.Writer, t *onehot.Table, format Format) error {
	counts := t.Counts()
	if format.IsTable() {
		if format != FormatWide {
			counts = nil
		}
		return NewFormatter(format).Format(w, table.VocabularyToTableData(t.Vocabulary, counts))
	}

	entries := make([]VocabularyEntry, len(t.Vocabulary))
	for i, genre := range t.Vocabulary {
		entries[i] = VocabularyEntry{Index: i, Genre: genre, Movies: counts[i]}
	}
	return NewFormatter(format).Format(w, entries)
}
