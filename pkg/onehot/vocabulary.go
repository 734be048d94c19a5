// Package onehot expands the genre list of each normalized catalog record
// into one indicator column per genre.
//
// The vocabulary is the sorted set of distinct genre names seen in the batch
// being encoded. A caller that needs stable columns across runs can freeze a
// vocabulary with WithVocabulary and persist it with SaveVocabulary.
package onehot

import (
	"slices"
	"sort"
)

// Vocabulary is a sorted list of distinct genre names.
// Its order is the order of the indicator columns.
type Vocabulary []string

// NewVocabulary returns the sorted distinct names. Empty names are skipped.
func NewVocabulary(names ...string) Vocabulary {
	seen := make(map[string]struct{}, len(names))
	v := make(Vocabulary, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		v = append(v, n)
	}
	sort.Strings(v)
	return v
}

// Index returns the column position of name.
func (v Vocabulary) Index(name string) (int, bool) {
	return slices.BinarySearch(v, name)
}

// Contains reports whether name is a column of the vocabulary.
func (v Vocabulary) Contains(name string) bool {
	_, ok := v.Index(name)
	return ok
}

// Len returns the number of columns.
func (v Vocabulary) Len() int { return len(v) }
