package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/reelmap/pkg/onehot"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	// Core data
	Rows       []Row
	Columns    []string
	Vocabulary onehot.Vocabulary

	// Statistics about the joins
	Stats Stats

	// Metadata
	Metadata ResultMetadata
}

// Stats counts what the reconciliation did.
type Stats struct {
	LinksIn           int `json:"links_in" yaml:"links_in"`
	DuplicateLinks    int `json:"duplicate_links" yaml:"duplicate_links"`
	ConflictingLinks  int `json:"conflicting_links" yaml:"conflicting_links"`
	Rows              int `json:"rows" yaml:"rows"`
	CatalogNullIDs    int `json:"catalog_null_ids" yaml:"catalog_null_ids"`
	CatalogDuplicates int `json:"catalog_duplicates" yaml:"catalog_duplicates"`
	CatalogMatches    int `json:"catalog_matches" yaml:"catalog_matches"`
	RatingsIn         int `json:"ratings_in" yaml:"ratings_in"`
	RatingDuplicates  int `json:"rating_duplicates" yaml:"rating_duplicates"`
	RatingMatches     int `json:"rating_matches" yaml:"rating_matches"`
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	// StartTime when reconciliation started
	StartTime utc.Time

	// EndTime when reconciliation completed
	EndTime utc.Time

	// Duration of the reconciliation
	Duration time.Duration
}

// NewResult creates a new result for a vocabulary.
func NewResult(vocab onehot.Vocabulary) *Result {
	return &Result{
		Rows:       []Row{},
		Columns:    Columns(vocab),
		Vocabulary: vocab,
		Metadata: ResultMetadata{
			StartTime: utc.Now(),
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Time.Sub(r.Metadata.StartTime.Time)
}

// Values returns every row flattened in Columns order.
func (r *Result) Values() [][]any {
	out := make([][]any, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Values(len(r.Vocabulary))
	}
	return out
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Reconciled %d movies: %d matched the catalog, %d matched IMDb ratings, %d genres",
		r.Stats.Rows, r.Stats.CatalogMatches, r.Stats.RatingMatches, len(r.Vocabulary))
}
