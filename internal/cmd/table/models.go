// Package table converts pipeline results into rows for table output.
package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/reelmap/pkg/onehot"
	"github.com/agentstation/reelmap/pkg/pipeline"
	"github.com/agentstation/reelmap/pkg/sources"
	"github.com/agentstation/reelmap/pkg/stats"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Title           string
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// OutcomesToTableData converts download outcomes to table format.
func OutcomesToTableData(outcomes []sources.Outcome) Data {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		size := "-"
		if o.Status == sources.StatusDownloaded {
			size = FormatNumber(o.Bytes)
		}
		removed := "-"
		if len(o.Removed) > 0 {
			removed = strconv.Itoa(len(o.Removed))
		}
		rows = append(rows, []string{
			string(o.ID),
			string(o.Status),
			o.Path,
			size,
			removed,
			FormatDuration(o.Duration),
		})
	}

	return Data{
		Headers:         []string{"Source", "Status", "Path", "Bytes", "Removed", "Time"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// BuildToTableData converts a pipeline run into a property/value table.
func BuildToTableData(out *pipeline.Output) Data {
	res := out.Result
	n := out.Normalize
	rows := [][]string{
		{"Run", out.RunID},
		{"Catalog rows", FormatNumber(int64(n.RowsIn))},
		{"Catalog rows kept", FormatNumber(int64(n.RowsKept))},
		{"Invalid ids", FormatNumber(int64(n.InvalidIDs))},
		{"Invalid dates", FormatNumber(int64(n.InvalidDates))},
		{"Invalid runtimes", FormatNumber(int64(n.InvalidRuntimes))},
		{"Invalid budgets", FormatNumber(int64(n.InvalidBudgets))},
		{"Invalid revenues", FormatNumber(int64(n.InvalidRevenues))},
		{"Genres", strconv.Itoa(res.Vocabulary.Len())},
		{"Rows without genres", FormatNumber(int64(out.Expand.EmptyRows))},
	}
	if out.Expand.Unknown > 0 {
		rows = append(rows, []string{"Unknown genres", strings.Join(out.Expand.UnknownGenres, ", ")})
	}
	rows = append(rows,
		[]string{"Links", FormatNumber(int64(res.Stats.LinksIn))},
		[]string{"Duplicate links", FormatNumber(int64(res.Stats.DuplicateLinks))},
		[]string{"Conflicting links", FormatNumber(int64(res.Stats.ConflictingLinks))},
		[]string{"Rows", FormatNumber(int64(res.Stats.Rows))},
		[]string{"Catalog matches", FormatNumber(int64(res.Stats.CatalogMatches))},
		[]string{"IMDb matches", FormatNumber(int64(res.Stats.RatingMatches))},
		[]string{"Duration", FormatDuration(res.Metadata.Duration)},
	)

	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// ReportToTableData converts a statistics report into one table per section.
func ReportToTableData(r stats.Report) []Data {
	a := r.Activity
	activity := Data{
		Title:   "User activity",
		Headers: []string{"Users", "Min", "Q25", "Median", "Q75", "Max"},
		Rows: [][]string{{
			FormatNumber(int64(a.Users)),
			strconv.Itoa(a.Min),
			FormatFloat(a.Q25),
			FormatFloat(a.Median),
			FormatFloat(a.Q75),
			strconv.Itoa(a.Max),
		}},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight},
	}

	s := r.Ratings
	ratings := Data{
		Title:   "IMDb ratings",
		Headers: []string{"Rated", "Mean Rating", "Median Votes", "Correlation"},
		Rows: [][]string{{
			FormatNumber(int64(s.Rated)),
			FormatFloat(s.MeanRating),
			FormatFloat(s.MedianVotes),
			FormatFloat(s.Correlation),
		}},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}

	return []Data{
		activity,
		CountsToTableData("Movies by year", "Year", r.ByYear),
		CountsToTableData("Movies by language", "Language", r.ByLanguage),
		CountsToTableData("Movies by genre", "Genre", r.ByGenre),
		ratings,
	}
}

// CountsToTableData converts keyed counts to table format.
func CountsToTableData(title, key string, counts []stats.Count) Data {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Key, FormatNumber(int64(c.Count))})
	}
	return Data{
		Title:           title,
		Headers:         []string{key, "Movies"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// VocabularyToTableData lists the genre columns with their positions and,
// when counts is non-nil, how many rows carry each genre.
func VocabularyToTableData(vocab onehot.Vocabulary, counts []int) Data {
	headers := []string{"#", "Genre"}
	align := []Align{AlignRight, AlignLeft}
	if counts != nil {
		headers = append(headers, "Movies")
		align = append(align, AlignRight)
	}

	rows := make([][]string, 0, vocab.Len())
	for i, genre := range vocab {
		row := []string{strconv.Itoa(i), genre}
		if counts != nil {
			row = append(row, FormatNumber(int64(counts[i])))
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: align,
	}
}

// FormatNumber formats an integer with thousands separators.
func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	// Add commas every 3 digits
	var b strings.Builder
	b.WriteString(sign)
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatFloat formats a statistic with up to three decimals.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatDuration formats a duration rounded to milliseconds.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
