// Package stats computes the summary numbers of a reconciled batch: how many
// movies each user rated, and how the reconciled movies spread across
// release years, original languages and genres.
package stats

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/agentstation/reelmap/pkg/ratings"
	"github.com/agentstation/reelmap/pkg/reconciler"
)

// Count is the number of movies sharing a key.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Activity summarizes the number of ratings per user.
type Activity struct {
	Users  int     `json:"users" yaml:"users"`
	Min    int     `json:"min" yaml:"min"`
	Max    int     `json:"max" yaml:"max"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Median float64 `json:"median" yaml:"median"`
	Q75    float64 `json:"q75" yaml:"q75"`
}

// RatingSummary describes the IMDb ratings attached to reconciled movies.
type RatingSummary struct {
	Rated       int     `json:"rated" yaml:"rated"`
	MeanRating  float64 `json:"mean_rating" yaml:"mean_rating"`
	MedianVotes float64 `json:"median_votes" yaml:"median_votes"`
	// Correlation is the Pearson correlation of rating and log10(votes).
	Correlation float64 `json:"correlation" yaml:"correlation"`
}

// Report gathers every summary.
type Report struct {
	Activity   Activity      `json:"activity" yaml:"activity"`
	ByYear     []Count       `json:"by_year" yaml:"by_year"`
	ByLanguage []Count       `json:"by_language" yaml:"by_language"`
	ByGenre    []Count       `json:"by_genre" yaml:"by_genre"`
	Ratings    RatingSummary `json:"ratings" yaml:"ratings"`
}

// Compute builds the full report.
func Compute(res *reconciler.Result, m *ratings.Matrix) Report {
	return Report{
		Activity:   UserActivity(m),
		ByYear:     ByYear(res.Rows),
		ByLanguage: ByLanguage(res.Rows),
		ByGenre:    ByGenre(res),
		Ratings:    Ratings(res.Rows),
	}
}

// UserActivity summarizes ratings per user with linearly interpolated quantiles.
func UserActivity(m *ratings.Matrix) Activity {
	counts := m.UserCounts()
	if len(counts) == 0 {
		return Activity{}
	}
	values := make([]float64, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}
	slices.Sort(values)
	return Activity{
		Users:  len(values),
		Min:    int(values[0]),
		Max:    int(values[len(values)-1]),
		Q25:    Percentile(values, 25),
		Median: Percentile(values, 50),
		Q75:    Percentile(values, 75),
	}
}

// ByYear counts movies per release year, oldest first. Movies without a year
// are not counted.
func ByYear(rows []reconciler.Row) []Count {
	counts := map[int]int{}
	for _, r := range rows {
		if r.Year != nil {
			counts[*r.Year]++
		}
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	out := make([]Count, len(years))
	for i, y := range years {
		out[i] = Count{Key: strconv.Itoa(y), Count: counts[y]}
	}
	return out
}

// ByLanguage counts movies per original language, most frequent first.
func ByLanguage(rows []reconciler.Row) []Count {
	counts := map[string]int{}
	for _, r := range rows {
		if r.OriginalLanguage != nil && *r.OriginalLanguage != "" {
			counts[*r.OriginalLanguage]++
		}
	}
	out := toCounts(counts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ByGenre counts movies flagged with each genre, least frequent first.
func ByGenre(res *reconciler.Result) []Count {
	out := make([]Count, len(res.Vocabulary))
	for j, name := range res.Vocabulary {
		out[j].Key = name
		for _, r := range res.Rows {
			if v, ok := r.Genre(j); ok {
				out[j].Count += int(v)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Ratings summarizes the IMDb ratings of the movies that have one.
func Ratings(rows []reconciler.Row) RatingSummary {
	var scores, votes, logVotes []float64
	for _, r := range rows {
		if r.IMDBAverageRating == nil || r.IMDBNumVotes == nil {
			continue
		}
		scores = append(scores, *r.IMDBAverageRating)
		votes = append(votes, float64(*r.IMDBNumVotes))
		logVotes = append(logVotes, math.Log10(math.Max(float64(*r.IMDBNumVotes), 1)))
	}
	if len(scores) == 0 {
		return RatingSummary{}
	}
	sorted := slices.Clone(votes)
	slices.Sort(sorted)
	return RatingSummary{
		Rated:       len(scores),
		MeanRating:  mean(scores),
		MedianVotes: Percentile(sorted, 50),
		Correlation: pearson(scores, logVotes),
	}
}

// Percentile returns the p-th percentile of sorted values using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

func toCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, c := range m {
		out = append(out, Count{Key: k, Count: c})
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// pearson returns 0 when either series is constant.
func pearson(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}
