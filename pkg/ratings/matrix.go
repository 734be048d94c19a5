// Package ratings holds the user/item rating log as a sparse matrix.
//
// An absent (user, item) pair means the user did not rate the item; it is
// never read as a zero rating.
package ratings

import (
	"slices"

	"github.com/agentstation/reelmap/pkg/errors"
)

// Entry is one observed rating.
type Entry struct {
	UserID int64   `json:"user_id" yaml:"user_id"`
	ItemID int64   `json:"item_id" yaml:"item_id"`
	Rating float64 `json:"rating" yaml:"rating"`
}

// Matrix is a sparse user by item rating matrix with both axes sorted.
type Matrix struct {
	users  []int64
	items  []int64
	values map[int64]map[int64]float64
	count  int
}

// NewMatrix builds a matrix from entries. When a (user, item) pair repeats,
// the last rating wins.
func NewMatrix(entries []Entry) *Matrix {
	m := &Matrix{values: make(map[int64]map[int64]float64)}
	itemSet := make(map[int64]struct{})
	for _, e := range entries {
		row, ok := m.values[e.UserID]
		if !ok {
			row = make(map[int64]float64)
			m.values[e.UserID] = row
			m.users = append(m.users, e.UserID)
		}
		if _, dup := row[e.ItemID]; !dup {
			m.count++
		}
		row[e.ItemID] = e.Rating
		if _, ok := itemSet[e.ItemID]; !ok {
			itemSet[e.ItemID] = struct{}{}
			m.items = append(m.items, e.ItemID)
		}
	}
	slices.Sort(m.users)
	slices.Sort(m.items)
	return m
}

// Users returns the user axis in ascending order.
func (m *Matrix) Users() []int64 { return slices.Clone(m.users) }

// Items returns the item axis in ascending order.
func (m *Matrix) Items() []int64 { return slices.Clone(m.items) }

// Len returns the number of observed ratings.
func (m *Matrix) Len() int { return m.count }

// Get returns the rating of item by user.
func (m *Matrix) Get(user, item int64) (float64, bool) {
	r, ok := m.values[user][item]
	return r, ok
}

// HasItem reports whether any user rated item.
func (m *Matrix) HasItem(item int64) bool {
	_, ok := slices.BinarySearch(m.items, item)
	return ok
}

// UserCounts returns the number of ratings per user, aligned with Users.
func (m *Matrix) UserCounts() []int {
	counts := make([]int, len(m.users))
	for i, u := range m.users {
		counts[i] = len(m.values[u])
	}
	return counts
}

// ItemRatings returns all ratings of item, ordered by user.
func (m *Matrix) ItemRatings(item int64) []Entry {
	var out []Entry
	for _, u := range m.users {
		if r, ok := m.values[u][item]; ok {
			out = append(out, Entry{UserID: u, ItemID: item, Rating: r})
		}
	}
	return out
}

// Validate checks that every rating lies within [min, max].
func (m *Matrix) Validate(minRating, maxRating float64) error {
	for _, u := range m.users {
		for item, r := range m.values[u] {
			if r < minRating || r > maxRating {
				return &errors.ValidationError{
					Field:   "rating",
					Value:   Entry{UserID: u, ItemID: item, Rating: r},
					Message: "out of range",
				}
			}
		}
	}
	return nil
}
